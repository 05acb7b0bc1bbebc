package telegrambotmessagesender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"ponger/internal/core/domain/bot"
	"time"

	"golang.org/x/time/rate"
)

type telegramMessage struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type webhook struct {
	URL            string   `json:"url"`
	AllowedUpdates []string `json:"allowed_updates"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// TelegramBotMessageSender talks to the Bot API over plain HTTP. Outgoing
// calls share one token bucket.
type TelegramBotMessageSender struct {
	httpClient http.Client
	baseURL    url.URL
	token      string
	limiter    *rate.Limiter
}

// New creates a sender allowing at most ratePerSecond calls per second.
// A non-positive rate disables the limit.
func New(
	baseURL url.URL,
	token string,
	timeout time.Duration,
	ratePerSecond int,
) *TelegramBotMessageSender {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond)
	}
	return &TelegramBotMessageSender{
		baseURL:    baseURL,
		token:      token,
		limiter:    limiter,
		httpClient: http.Client{Timeout: timeout},
	}
}

func (s *TelegramBotMessageSender) SendTelegramBotMessage(ctx context.Context, m bot.TelegramBotMessage) error {
	return s.call(ctx, "sendMessage", telegramMessage{ChatID: int64(m.ChatID), Text: m.Text})
}

// SetWebhook asks Telegram to deliver message updates to the URL.
func (s *TelegramBotMessageSender) SetWebhook(ctx context.Context, webhookURL string) error {
	return s.call(ctx, "setWebhook", webhook{URL: webhookURL, AllowedUpdates: []string{"message"}})
}

func (s *TelegramBotMessageSender) call(ctx context.Context, method string, payload any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	url := s.baseURL.JoinPath(fmt.Sprintf("bot%s", s.token), method)
	var body bytes.Buffer
	encoder := json.NewEncoder(&body)
	err := encoder.Encode(payload)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url.String(), &body)
	if err != nil {
		return err
	}
	request.Header.Add("content-type", "application/json")
	resp, err := s.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("got unsuccessful response from Telegram %s: %s", method, string(body))
	}

	var decoded telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("telegram %s: could not decode response: %w", method, err)
	}
	if !decoded.OK {
		return fmt.Errorf("telegram %s: %s", method, decoded.Description)
	}
	return nil
}
