package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"horse.fit/dynamictranslator/internal/auth"
	"horse.fit/dynamictranslator/internal/db"
	"horse.fit/dynamictranslator/internal/globaltime"
	"horse.fit/dynamictranslator/internal/langdetect"
	"horse.fit/dynamictranslator/internal/payloadschema"
	"horse.fit/dynamictranslator/internal/watch"
)

const maxLookupTextLength = 10000

type providerItem struct {
	Name               string   `json:"name"`
	SupportedLanguages []string `json:"supported_languages"`
}

type lookupResponse struct {
	Text       string   `json:"text"`
	Best       string   `json:"best"`
	Candidates []string `json:"candidates"`
}

type notificationItem struct {
	NotificationUUID string `json:"notification_uuid"`
	SourceText       string `json:"source_text"`
	IconRef          string `json:"icon_ref"`
	Message          string `json:"message"`
	CreatedAt        string `json:"created_at"`
}

func (s *Server) handleHealth(c echo.Context) error {
	database := "disabled"
	if s.history != nil {
		database = "ok"
		if err := s.history.Ping(c.Request().Context()); err != nil {
			s.logger.Error().Err(err).Msg("database ping failed")
			return fail(c, http.StatusServiceUnavailable, "Database unavailable", map[string]any{
				"database": "error",
			})
		}
	}
	return success(c, map[string]any{
		"service":  "dynamictranslator",
		"version":  s.opts.Version,
		"database": database,
		"time":     globaltime.UTC(),
	})
}

func (s *Server) handleProviders(c echo.Context) error {
	providers := s.providers.Providers()
	items := make([]providerItem, 0, len(providers))
	for _, p := range providers {
		items = append(items, providerItem{
			Name:               p.Name(),
			SupportedLanguages: p.SupportedLanguages(),
		})
	}
	return success(c, map[string]any{
		"target_language": s.opts.TargetLanguage,
		"items":           items,
	})
}

func (s *Server) handleLookup(c echo.Context) error {
	text := c.QueryParam("text")
	if strings.TrimSpace(text) == "" {
		return failValidation(c, map[string]string{"text": "is required"})
	}
	if len(text) > maxLookupTextLength {
		return failValidation(c, map[string]string{"text": fmt.Sprintf("must be at most %d bytes", maxLookupTextLength)})
	}

	candidates, err := s.translator.Lookup(c.Request().Context(), text)
	if err != nil {
		switch {
		case errors.Is(err, langdetect.ErrNoText):
			return fail(c, http.StatusUnprocessableEntity, "Text has no letters to translate", nil)
		case errors.Is(err, context.DeadlineExceeded):
			return errorWithStatus(c, http.StatusGatewayTimeout, "Lookup timed out")
		}
		s.logger.Error().Err(err).Int("text_length", len(text)).Msg("lookup failed")
		return internalError(c, "Lookup failed")
	}

	resp := lookupResponse{Text: text, Candidates: candidates}
	if len(candidates) > 0 {
		resp.Best = candidates[0]
	}
	return success(c, resp)
}

func (s *Server) handleNotifications(c echo.Context) error {
	if s.history == nil {
		return fail(c, http.StatusServiceUnavailable, "History is disabled (DATABASE_URL is not set)", nil)
	}
	limit, err := parsePositiveInt(c.QueryParam("limit"), db.DefaultListLimit, 1, db.MaxListLimit)
	if err != nil {
		return failValidation(c, map[string]string{"limit": err.Error()})
	}

	rows, err := s.history.ListNotifications(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("list notifications failed")
		return internalError(c, "Failed to load notifications")
	}
	items := make([]notificationItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, notificationItem{
			NotificationUUID: row.NotificationUUID,
			SourceText:       row.SourceText,
			IconRef:          row.IconRef,
			Message:          row.Message,
			CreatedAt:        row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return success(c, map[string]any{"items": items})
}

func (s *Server) handleChange(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read request body", nil)
	}
	event, err := payloadschema.ValidateChangeEventPayload(body)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	source := watch.SourceHTTP
	if event.Source != nil {
		source = *event.Source
	}
	s.logger.Debug().Str("source", source).Int("text_length", len(event.Text)).Msg("change accepted")
	s.translator.OnChange(event.Text)

	return successWithStatus(c, http.StatusAccepted, map[string]any{"accepted": true})
}

func (s *Server) requireToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.TrimSpace(s.opts.APITokenHash) == "" {
				return next(c)
			}
			token, ok := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok || !auth.VerifyToken(token, s.opts.APITokenHash) {
				return failUnauthorized(c)
			}
			return next(c)
		}
	}
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}
