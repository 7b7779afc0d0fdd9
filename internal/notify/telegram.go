package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tienda-backend/internal/models"
)

// Telegram posts order notifications to a chat via the bot API. An
// empty token disables it; callers treat every failure as best-effort.
type Telegram struct {
	token  string
	chatID string
	client *http.Client
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Telegram) SendOrderNotification(ctx context.Context, order *models.Order, customer *models.Customer) error {
	if t.token == "" || t.chatID == "" {
		return nil
	}

	text := fmt.Sprintf(
		"Nueva venta %s\nCliente: %s\nItems: %d\nTotal: $%.2f",
		order.ID.Hex(), customer.Name, len(order.Items), order.Total,
	)

	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("telegram responded %d", res.StatusCode)
	}
	return nil
}
