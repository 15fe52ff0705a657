// Package sharelink encodes a question set into a URL fragment so quizzes can
// be shared without a server.
//
// Encoding serializes the questions to JSON, squeezes the recurring structural
// tokens down to single placeholder bytes, and base64-encodes the result with
// the URL-safe alphabet, unpadded. Decoding also accepts links produced before
// the substitution pass existed: placeholder bytes cannot occur in plain JSON
// text, so reversing the substitution on a legacy payload is a no-op.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quizgen/internal/quiz"
)

var (
	// ErrInvalidFormat means the text is not a share link at all.
	ErrInvalidFormat = errors.New("invalid link format")
	// ErrNotQuestionList means the link decoded but does not carry a
	// well-formed question list.
	ErrNotQuestionList = errors.New("link does not contain a well-formed question list")
)

// FragmentPrefix introduces the encoded payload in a shared URL.
const FragmentPrefix = "#quiz="

// substitutions maps recurring JSON tokens to placeholder bytes outside the
// printable alphabet. Order matters: longer tokens go first so their inner
// `","` is not consumed early. Decoding applies the table in reverse.
//
// Known limitation: question text containing one of the placeholder bytes
// breaks the round trip. Raw control bytes cannot appear in JSON string
// literals produced by encoding/json, so this only bites hand-crafted input.
var substitutions = []struct {
	token       string
	placeholder string
}{
	{`{"question":"`, "\x01"},
	{`","choices":["`, "\x02"},
	{`"],"answer":`, "\x03"},
	{`,"explanation":"`, "\x04"},
	{`"},`, "\x05"},
	{`","`, "\x06"},
	{`true`, "\x07"},
	{`false`, "\x08"},
}

// Encode produces the URL-fragment-safe representation of a definition.
func Encode(def quiz.Definition) (string, error) {
	if err := quiz.ValidateQuestions(def.Questions); err != nil {
		return "", err
	}

	payload, err := json.Marshal(def.Questions)
	if err != nil {
		return "", err
	}

	text := string(payload)
	for _, sub := range substitutions {
		text = strings.ReplaceAll(text, sub.token, sub.placeholder)
	}
	return base64.RawURLEncoding.EncodeToString([]byte(text)), nil
}

// Fragment returns the full "#quiz=..." fragment for a definition.
func Fragment(def quiz.Definition) (string, error) {
	encoded, err := Encode(def)
	if err != nil {
		return "", err
	}
	return FragmentPrefix + encoded, nil
}

// Decode parses an encoded payload back into a definition.
func Decode(encoded string) (quiz.Definition, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return quiz.Definition{}, ErrInvalidFormat
	}

	// Normalize standard-alphabet or padded variants before decoding.
	normalized := strings.NewReplacer("+", "-", "/", "_").Replace(encoded)
	normalized = strings.TrimRight(normalized, "=")

	raw, err := base64.RawURLEncoding.DecodeString(normalized)
	if err != nil {
		return quiz.Definition{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	text := string(raw)
	for i := len(substitutions) - 1; i >= 0; i-- {
		text = strings.ReplaceAll(text, substitutions[i].placeholder, substitutions[i].token)
	}

	questions, err := quiz.ParseQuestions(text)
	if err != nil {
		return quiz.Definition{}, fmt.Errorf("%w: %v", ErrNotQuestionList, err)
	}
	return quiz.Definition{Questions: questions}, nil
}

// FromFragment extracts and decodes the payload from a URL or bare fragment
// containing "#quiz=".
func FromFragment(link string) (quiz.Definition, error) {
	idx := strings.Index(link, FragmentPrefix)
	if idx < 0 {
		return quiz.Definition{}, ErrInvalidFormat
	}
	return Decode(link[idx+len(FragmentPrefix):])
}
