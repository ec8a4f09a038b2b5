package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/models"
	"github.com/zenithfin/zenith/internal/storage"
)

type fakeClient struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestService(t *testing.T, client *fakeClient) (*Service, *storage.FileDataStore) {
	t.Helper()
	store := storage.NewFileDataStore(common.NewSilentLogger(), t.TempDir(), 0)
	require.NoError(t, store.Initialize())
	return NewService(client, store, common.NewSilentLogger()), store
}

func TestChatEmbedsUserData(t *testing.T) {
	client := &fakeClient{reply: "Spend less on dining out."}
	svc, store := newTestService(t, client)
	ctx := context.Background()

	data := models.NewAppData()
	data.UserProfile = models.UserProfile{Name: "Priya", Age: 31}
	data.Holdings = []models.Holding{
		{ID: "1", Name: "NIFTYBEES", Type: models.InstrumentETF, Quantity: 50, AvgPrice: 220, CurrentPrice: 225.5},
	}
	data.Debts = []models.Debt{{ID: "d1", Name: "Car Loan", TotalAmount: 400000, AmountPaid: 150000}}
	require.NoError(t, store.SaveData(ctx, "u1", data))

	reply, err := svc.Chat(ctx, "u1", "How am I doing this month?")
	require.NoError(t, err)
	assert.Equal(t, "Spend less on dining out.", reply)

	assert.Contains(t, client.lastPrompt, "Priya")
	assert.Contains(t, client.lastPrompt, "NIFTYBEES")
	assert.Contains(t, client.lastPrompt, "Car Loan")
	assert.True(t, strings.HasSuffix(client.lastPrompt, "How am I doing this month?"))
}

func TestChatPersistsHistory(t *testing.T) {
	svc, _ := newTestService(t, &fakeClient{reply: "ok"})
	ctx := context.Background()

	_, err := svc.Chat(ctx, "u1", "first question")
	require.NoError(t, err)

	history, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "first question", history[0].Text)
	assert.Equal(t, "model", history[1].Role)
}

func TestChatValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakeClient{reply: "ok"})

	_, err := svc.Chat(context.Background(), "u1", "   ")
	assert.Error(t, err)
}

func TestChatClientErrorNotRecorded(t *testing.T) {
	svc, _ := newTestService(t, &fakeClient{err: errors.New("quota exceeded")})
	ctx := context.Background()

	_, err := svc.Chat(ctx, "u1", "hello")
	require.Error(t, err)

	history, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatUnconfiguredClient(t *testing.T) {
	store := storage.NewFileDataStore(common.NewSilentLogger(), t.TempDir(), 0)
	require.NoError(t, store.Initialize())
	svc := NewService(nil, store, common.NewSilentLogger())

	_, err := svc.Chat(context.Background(), "u1", "hello")
	assert.Error(t, err)
}
