package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/TonganTuring/learning-tongan-app/internal/dal"
)

type (
	clerkEvent struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	clerkUser struct {
		ID             string              `json:"id"`
		FirstName      string              `json:"first_name"`
		LastName       string              `json:"last_name"`
		ImageURL       string              `json:"image_url"`
		EmailAddresses []clerkEmailAddress `json:"email_addresses"`
	}

	clerkEmailAddress struct {
		EmailAddress string `json:"email_address"`
	}

	WebhooksHandler struct {
		repo    dal.UsersRepository
		webhook *svix.Webhook
		log     *slog.Logger
	}
)

func NewWebhooksHandler(repo dal.UsersRepository, signingSecret string, log *slog.Logger) *WebhooksHandler {
	webhook, err := svix.NewWebhook(signingSecret)
	if err != nil {
		// NewWebhook only fails on a malformed secret, which config validation
		// would have rejected already.
		panic(fmt.Sprintf("create webhook verifier: %v", err))
	}
	return &WebhooksHandler{repo: repo, webhook: webhook, log: log}
}

// HandleClerkEvent processes identity-provider lifecycle events. The payload
// signature is verified before anything is parsed; unknown event types are
// acknowledged and ignored so the provider does not retry them.
func (h *WebhooksHandler) HandleClerkEvent(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := h.webhook.Verify(payload, c.Request().Header); err != nil {
		h.log.WarnContext(ctx, "webhook signature verification failed", "error", err)
		return c.JSON(http.StatusUnauthorized, unauthorizedResponse)
	}

	var event clerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	switch event.Type {
	case "user.created", "user.updated":
		if err := h.upsertUser(c, event.Data); err != nil {
			return err
		}
	case "user.deleted":
		if err := h.deleteUser(c, event.Data); err != nil {
			return err
		}
	default:
		h.log.InfoContext(ctx, "ignoring webhook event", "type", event.Type)
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

func (h *WebhooksHandler) upsertUser(c echo.Context, data json.RawMessage) error {
	ctx := c.Request().Context()

	var payload clerkUser
	if err := json.Unmarshal(data, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if payload.ID == "" {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	user := dal.User{
		ClerkID:   payload.ID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		AvatarURL: payload.ImageURL,
	}
	if len(payload.EmailAddresses) > 0 {
		user.Email = payload.EmailAddresses[0].EmailAddress
	}

	if err := h.repo.UpsertUser(ctx, user); err != nil {
		h.log.ErrorContext(ctx, "failed to upsert user", "clerk_id", payload.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	return nil
}

func (h *WebhooksHandler) deleteUser(c echo.Context, data json.RawMessage) error {
	ctx := c.Request().Context()

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if payload.ID == "" {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := h.repo.DeleteUser(ctx, payload.ID); err != nil {
		h.log.ErrorContext(ctx, "failed to delete user", "clerk_id", payload.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	return nil
}
