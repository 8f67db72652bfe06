package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sistemacipt/termos-cli/internal/model"
	"github.com/sistemacipt/termos-cli/pkg/anthropic"
	"github.com/sistemacipt/termos-cli/pkg/brasilapi"
	"github.com/sistemacipt/termos-cli/pkg/drive"
)

type mockDrive struct {
	mock.Mock
}

func (m *mockDrive) ListDocx(ctx context.Context, folderID string) ([]drive.File, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]drive.File), args.Error(1)
}

func (m *mockDrive) Download(ctx context.Context, fileID string) ([]byte, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockAI struct {
	mock.Mock
}

func (m *mockAI) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) LookupCNPJ(ctx context.Context, cnpj string) (*brasilapi.CNPJResponse, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brasilapi.CNPJResponse), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetClientByDocument(ctx context.Context, document string) (*model.StoredClient, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredClient), args.Error(1)
}

func (m *mockStore) InsertClient(ctx context.Context, c model.Client) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *mockStore) InsertEvent(ctx context.Context, ev model.EventRow) (string, error) {
	args := m.Called(ctx, ev)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Wipe(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func textResponse(body string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: body}},
	}
}

func floatPtr(v float64) *float64 { return &v }
