package translation

import (
	"context"
	"encoding/json"
)

// Provider resolves one request to a candidate meaning.
// A returned error aborts the whole fan-out; an unsuccessful result does not.
type Provider interface {
	Find(ctx context.Context, req TranslateRequest) (TranslateResult, error)
	Name() string
	SupportedLanguages() []string
}

// TranslateRequest describes one lookup fan-out.
type TranslateRequest struct {
	Text       string
	SourceLang string // ISO 639-1 (for example: "en", "tr")
	TargetLang string
}

// TranslateResult is one provider's answer. Message is meaningful only when HasMessage is set.
type TranslateResult struct {
	IsSuccess  bool
	Message    string
	HasMessage bool
}

// NewTranslateResult returns the default result: successful, without a message.
func NewTranslateResult() TranslateResult {
	return TranslateResult{IsSuccess: true}
}

func Success(message string) TranslateResult {
	return TranslateResult{IsSuccess: true, Message: message, HasMessage: true}
}

func Failure() TranslateResult {
	return TranslateResult{}
}

// FailureWithMessage carries an explanatory string from a provider that found nothing.
func FailureWithMessage(message string) TranslateResult {
	return TranslateResult{Message: message, HasMessage: true}
}

// Text returns the message and whether one is present.
func (r TranslateResult) Text() (string, bool) {
	if !r.HasMessage {
		return "", false
	}
	return r.Message, true
}

type translateResultJSON struct {
	IsSuccess bool    `json:"is_success"`
	Message   *string `json:"message,omitempty"`
}

func (r TranslateResult) MarshalJSON() ([]byte, error) {
	out := translateResultJSON{IsSuccess: r.IsSuccess}
	if r.HasMessage {
		msg := r.Message
		out.Message = &msg
	}
	return json.Marshal(out)
}

func (r *TranslateResult) UnmarshalJSON(data []byte) error {
	var in translateResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = TranslateResult{IsSuccess: in.IsSuccess}
	if in.Message != nil {
		r.Message = *in.Message
		r.HasMessage = true
	}
	return nil
}

// ResultSet holds one result per provider, in provider registration order.
type ResultSet []TranslateResult

func (s ResultSet) Clone() ResultSet {
	if s == nil {
		return nil
	}
	out := make(ResultSet, len(s))
	copy(out, s)
	return out
}
