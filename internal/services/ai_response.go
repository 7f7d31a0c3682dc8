package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// AnalyzerError is returned by every AI analyzer on any failure: transport,
// timeout, malformed output or out-of-range values. Callers fall back on it.
type AnalyzerError struct {
	Op  string
	Err error
}

func (e *AnalyzerError) Error() string {
	return fmt.Sprintf("%s analysis failed: %v", e.Op, e.Err)
}

func (e *AnalyzerError) Unwrap() error {
	return e.Err
}

// aiCall runs one prompt against the generator with a hard deadline and
// strictly decodes the reply into target.
type aiCall struct {
	gen         TextGenerator
	timeout     time.Duration
	temperature float32
}

func (c aiCall) run(ctx context.Context, op, prompt string, required []string, target interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.gen.GenerateText(ctx, prompt, c.temperature)
	if err != nil {
		return &AnalyzerError{Op: op, Err: err}
	}

	if err := decodeAIResponse(raw, required, target); err != nil {
		return &AnalyzerError{Op: op, Err: err}
	}
	return nil
}

func decodeAIResponse(raw string, required []string, target interface{}) error {
	payload := extractJSON(raw)
	if !gjson.Valid(payload) {
		return fmt.Errorf("response is not valid JSON")
	}

	if !gjson.Parse(payload).IsObject() {
		return fmt.Errorf("response is not a JSON object")
	}

	for i, res := range gjson.GetMany(payload, required...) {
		if !res.Exists() {
			return fmt.Errorf("response is missing %q", required[i])
		}
	}

	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}

func checkRange(field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s out of range [%v,%v]: %v", field, lo, hi, v)
	}
	return nil
}

func checkScore(field string, v float64) error {
	return checkRange(field, v, 0, 100)
}

func checkConfidence(v float64) error {
	return checkRange("confidence", v, 0, 1)
}
