// Package ai produces model-written product reviews.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/config"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
	"google.golang.org/genai"
)

const reviewPrompt = `
You are an expert e-commerce product analyst. Analyze the provided product JSON and generate a comprehensive, unbiased review.

## Instructions
- Base your analysis strictly on the provided product data
- Be objective, highlighting both strengths and weaknesses
- Use clear, concise language suitable for online shoppers
- Format your response in markdown for readability

## Required Sections

### 1. Product Overview
Summarize what this product is, its key features, specifications (dimensions, weight), and what makes it stand out. Mention the brand reputation if applicable.

### 2. Value Analysis
- Evaluate the price point considering the product category and features
- Analyze the discount percentage - is it a good deal?
- Consider the minimum order quantity and stock availability
- Give a value rating: Excellent / Good / Fair / Poor

### 3. Purchase Confidence
- Assess the warranty and return policy terms
- Evaluate shipping information and availability status
- Highlight any concerns or reassurances for buyers
- Provide a final recommendation: Buy / Consider / Skip

Keep the review concise (300-400 words) and actionable for shoppers making purchase decisions.
`

const (
	msgDisabled    = "AI Review feature is currently disabled"
	msgRateLimited = "Rate limit exceeded. Please try again later."
	msgFailed      = "Failed to generate AI review. Please try again later."
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg config.AI) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

type Review struct {
	Review    string `json:"review"`
	ProductID string `json:"productId"`
}

// Reviewer writes a review for a stored product. A nil generator or a
// disabled flag turns every call into a Disabled error.
type Reviewer struct {
	enabled  bool
	products ProductFinder
	gen      Generator
}

func NewReviewer(enabled bool, products ProductFinder, gen Generator) *Reviewer {
	return &Reviewer{enabled: enabled && gen != nil, products: products, gen: gen}
}

func (r *Reviewer) Enabled() bool { return r.enabled }

func (r *Reviewer) Review(ctx context.Context, productID string) (*Review, error) {
	if !r.enabled {
		return nil, apperr.Disabled(msgDisabled)
	}
	if strings.TrimSpace(productID) == "" {
		return nil, apperr.Validation("Product ID is required", nil)
	}

	product, err := r.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperr.Internal(msgFailed, err)
	}

	prompt, err := BuildPrompt(product)
	if err != nil {
		return nil, apperr.Internal(msgFailed, err)
	}

	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, classify(err)
	}
	return &Review{Review: text, ProductID: product.ID}, nil
}

// BuildPrompt appends the product as JSON to the review instructions.
func BuildPrompt(p *models.Product) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return reviewPrompt + "PRODUCT JSON: \n " + string(data), nil
}

// classify separates provider throttling from other failures.
func classify(err error) error {
	if throttled(err) {
		return &apperr.Error{Kind: apperr.KindRateLimited, Message: msgRateLimited, Err: err}
	}
	return apperr.Internal(msgFailed, err)
}

func throttled(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	// Errors that did not come back as an API response, e.g. from a proxy.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "exhausted")
}
