// Package drive provides read-only access to the contract term folders on
// Google Drive.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/oauth2"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DocxMIME is the MIME type Drive reports for .docx files.
const DocxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// File identifies one document in a Drive folder.
type File struct {
	ID   string
	Name string
}

// Client lists and downloads contract documents.
type Client interface {
	ListDocx(ctx context.Context, folderID string) ([]File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

type driveClient struct {
	svc *gdrive.Service
}

// NewClient builds a Drive client from a stored OAuth2 token file. The token
// is used as-is and never refreshed: obtaining or renewing it is a separate
// concern, and an expired or invalid token fails with a 401 on the first API
// call, not at construction.
func NewClient(ctx context.Context, tokenPath string, opts ...option.ClientOption) (Client, error) {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, eris.Wrapf(err, "drive: read token %s", tokenPath)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, eris.Wrapf(err, "drive: parse token %s", tokenPath)
	}

	all := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&tok)),
		option.WithScopes(gdrive.DriveReadonlyScope),
	}, opts...)

	svc, err := gdrive.NewService(ctx, all...)
	if err != nil {
		return nil, eris.Wrap(err, "drive: create service")
	}
	return &driveClient{svc: svc}, nil
}

// NewClientWithService wraps an existing Drive service. Used by tests and the
// token-provisioning tooling.
func NewClientWithService(svc *gdrive.Service) Client {
	return &driveClient{svc: svc}
}

// ListDocx returns every non-trashed .docx file directly inside folderID.
func (c *driveClient) ListDocx(ctx context.Context, folderID string) ([]File, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", folderID, DocxMIME)

	var files []File
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Context(ctx).
			Q(query).
			PageSize(1000).
			Fields("nextPageToken, files(id, name)")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, eris.Wrapf(err, "drive: list folder %s", folderID)
		}
		for _, f := range res.Files {
			files = append(files, File{ID: f.Id, Name: f.Name})
		}
		if res.NextPageToken == "" {
			return files, nil
		}
		pageToken = res.NextPageToken
	}
}

// Download fetches the raw bytes of a file.
func (c *driveClient) Download(ctx context.Context, fileID string) ([]byte, error) {
	res, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, eris.Wrapf(err, "drive: download %s", fileID)
	}
	defer res.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "drive: read %s", fileID)
	}
	return data, nil
}
