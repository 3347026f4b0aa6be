// Package generator turns an aggregated profile and an outreach motive into a
// personalised message using a generative-language model.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/model"
)

// Placeholder is returned in place of a message whenever generation fails.
const Placeholder = "Could not generate message. Please try again."

var errEmptyResponse = errors.New("model returned no text")

// TextGenerator submits a prompt and returns the model's text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	Backend TextGenerator
	Logger  *zap.Logger
}

func New(backend TextGenerator, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{Backend: backend, Logger: logger}
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(profile *model.Profile, motive string) (string, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an expert in writing highly personalized cold outreach messages that sound natural, professional, and engaging.\n\n")
	b.WriteString("Here is the LinkedIn profile data of the target individual:\n")
	b.Write(raw)
	b.WriteString("\n\nMotive for outreach: ")
	b.WriteString(motive)
	b.WriteString("\n\nWrite a comprehensive outreach message tailored to this individual. ")
	b.WriteString("The tone should be friendly yet professional, personalized to their background, and should clearly express the purpose of the message without being salesy. ")
	b.WriteString("The message should be between 150 and 180 words, not less than that. ")
	b.WriteString("Avoid generic language and include details from their profile like roles, education, skills, awards, etc.\n")
	return b.String(), nil
}

// Generate always returns a usable message. When the model call fails the
// message is Placeholder and the cause is returned for logging.
func (g *Generator) Generate(ctx context.Context, profile *model.Profile, motive string) (string, error) {
	prompt, err := BuildPrompt(profile, motive)
	if err != nil {
		return Placeholder, err
	}

	text, err := g.Backend.GenerateText(ctx, prompt)
	if err != nil {
		g.Logger.Error("message generation failed", zap.Error(err))
		return Placeholder, fmt.Errorf("generate message: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		g.Logger.Error("message generation failed", zap.Error(errEmptyResponse))
		return Placeholder, errEmptyResponse
	}
	return text, nil
}
