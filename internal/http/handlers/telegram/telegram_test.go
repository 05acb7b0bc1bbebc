package telegram

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"ponger/internal/core/domain/bot"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	handlemessage "ponger/internal/core/services/handle_message"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const SECRET = "s3cr3t"

type recordingService struct {
	lock   sync.Mutex
	inputs []handlemessage.Input
	err    error
}

func (s *recordingService) Run(
	ctx context.Context,
	input handlemessage.Input,
) (handlemessage.Result, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.inputs = append(s.inputs, input)
	return handlemessage.Result{}, s.err
}

func newRouter(service *recordingService, deduplicator bot.UpdateDeduplicator) http.Handler {
	router := chi.NewRouter()
	router.Method(
		http.MethodPost,
		"/telegram/updates/{secret}",
		New(logging.NewFakeLogger(), SECRET, deduplicator, service),
	)
	return router
}

func post(handler http.Handler, secret string, body string) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/telegram/updates/"+secret, bytes.NewBufferString(body))
	handler.ServeHTTP(rw, r)
	return rw
}

func TestUpdates(t *testing.T) {
	cases := []struct {
		id       string
		body     string
		expected []handlemessage.Input
	}{
		{
			id:   "1",
			body: `{"update_id":1,"message":{"message_id":2,"from":{"id":42},"chat":{"id":42},"date":1,"text":"30 Hi"}}`,
			expected: []handlemessage.Input{
				{Text: "30 Hi", RecipientID: reminder.RecipientID(42)},
			},
		},
		{
			id:   "2",
			body: `{"update_id":1,"message":{"message_id":2,"from":{"id":42},"chat":{"id":-1001},"text":"Hello"}}`,
			expected: []handlemessage.Input{
				{Text: "Hello", RecipientID: reminder.RecipientID(-1001)},
			},
		},
		{
			id:   "3",
			body: `{"update_id":1,"message":{"message_id":2,"chat":{"id":7},"text":" 5 spaced "}}`,
			expected: []handlemessage.Input{
				{Text: " 5 spaced ", RecipientID: reminder.RecipientID(7)},
			},
		},
		{id: "4", body: `{"update_id":1,"edited_message":{"message_id":2,"chat":{"id":7},"text":"x"}}`},
		{id: "5", body: `{"update_id":1,"message":{"message_id":2,"chat":{"id":7},"sticker":{}}}`},
		{id: "6", body: `not json`},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			service := &recordingService{}
			router := newRouter(service, bot.NewFakeUpdateDeduplicator())

			// Exercise ---
			rw := post(router, SECRET, testcase.body)

			// Verify ---
			assert := require.New(t)
			assert.Equal(http.StatusOK, rw.Code)
			assert.Equal(testcase.expected, service.inputs)
		})
	}
}

func TestRetriedUpdateIsHandledOnce(t *testing.T) {
	// Setup ---
	service := &recordingService{}
	router := newRouter(service, bot.NewFakeUpdateDeduplicator())
	body := `{"update_id":10,"message":{"message_id":2,"chat":{"id":42},"text":"30 Hi"}}`

	// Exercise ---
	first := post(router, SECRET, body)
	second := post(router, SECRET, body)
	other := post(router, SECRET, `{"update_id":11,"message":{"message_id":3,"chat":{"id":42},"text":"30 Hi"}}`)

	// Verify ---
	assert := require.New(t)
	assert.Equal(http.StatusOK, first.Code)
	assert.Equal(http.StatusOK, second.Code)
	assert.Equal(http.StatusOK, other.Code)
	assert.Len(service.inputs, 2)
}

func TestInvalidSecret(t *testing.T) {
	service := &recordingService{}
	router := newRouter(service, bot.NewFakeUpdateDeduplicator())

	rw := post(router, "wrong", `{"update_id":1,"message":{"message_id":2,"chat":{"id":42},"text":"Hi"}}`)

	assert := require.New(t)
	assert.Equal(http.StatusNotFound, rw.Code)
	assert.Empty(service.inputs)
}

func TestServiceErrorIsAnsweredWithOK(t *testing.T) {
	service := &recordingService{err: errors.New("test error")}
	router := newRouter(service, bot.NewFakeUpdateDeduplicator())

	rw := post(router, SECRET, `{"update_id":1,"message":{"message_id":2,"chat":{"id":42},"text":"Hi"}}`)

	assert := require.New(t)
	assert.Equal(http.StatusOK, rw.Code)
	assert.Len(service.inputs, 1)
}

func TestNilArgumentsPanic(t *testing.T) {
	log := logging.NewFakeLogger()
	deduplicator := bot.NewFakeUpdateDeduplicator()
	var service services.Service[handlemessage.Input, handlemessage.Result] = &recordingService{}
	assert := require.New(t)
	assert.Panics(func() { New(nil, SECRET, deduplicator, service) })
	assert.Panics(func() { New(log, "", deduplicator, service) })
	assert.Panics(func() { New(log, SECRET, nil, service) })
	assert.Panics(func() { New(log, SECRET, deduplicator, nil) })
}
