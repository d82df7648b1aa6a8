package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// BotClient talks to the messaging platform's bot HTTP API. It carries chat
// replies back to players and problem notifications to the human operator
// channel. Delivery is best-effort: every caller treats an error as
// "log and continue".
type BotClient struct {
	apiBase        string
	token          string
	operatorChatID string
	client         *http.Client
}

func NewBotClient(apiBase, token, operatorChatID string) *BotClient {
	return &BotClient{
		apiBase:        apiBase,
		token:          token,
		operatorChatID: operatorChatID,
		client:         &http.Client{Timeout: 30 * time.Second},
	}
}

// SendMessage sends a text message to a chat.
func (b *BotClient) SendMessage(ctx context.Context, chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", b.apiBase, b.token)

	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to send bot message", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("failed to send message: %s", resp.Status)
	}

	return nil
}

// NotifyProblem posts a deposit problem report to the operator channel.
func (b *BotClient) NotifyProblem(ctx context.Context, userID, description, orderNumber string) error {
	if orderNumber == "" {
		orderNumber = "unknown"
	}
	text := fmt.Sprintf("⚠️ Deposit problem\nUser: %s\nOrder: %s\n\n%s", userID, orderNumber, description)
	return b.SendMessage(ctx, b.operatorChatID, text)
}

// SendMedia uploads a photo or document to a chat with an optional caption.
// kind is "photo" or "document".
func (b *BotClient) SendMedia(ctx context.Context, chatID, kind string, data []byte, caption string) error {
	method := "sendDocument"
	field := "document"
	filename := "file"
	if kind == "photo" {
		method = "sendPhoto"
		field = "photo"
		filename = "photo.jpg"
	}
	url := fmt.Sprintf("%s/bot%s/%s", b.apiBase, b.token, method)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chat_id", chatID); err != nil {
		return err
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to send media", "status", resp.StatusCode, "kind", kind, "body", string(body))
		return fmt.Errorf("failed to send media: %s", resp.Status)
	}

	return nil
}
