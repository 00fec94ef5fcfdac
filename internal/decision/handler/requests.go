package handler

import (
	"strings"

	"contentguard/internal/decision"
	"contentguard/internal/domain"
	"contentguard/pkg/domainerrors"
)

const (
	maxTextLength = 10000
	maxImageRefs  = 10
)

// AnalyzeRequest is the HTTP request body for POST /analyze. The json decoder
// matches field names case-insensitively, so legacy clients sending
// User_Text, Registered_Domain, or Business_ID keep working.
type AnalyzeRequest struct {
	UserText         string   `json:"user_text"`
	Images           []string `json:"images"`
	RegisteredDomain string   `json:"registered_domain"`
	BusinessID       string   `json:"business_id"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AnalyzeRequest) Validate() error {
	if r == nil {
		return domainerrors.New(domainerrors.CodeBadRequest, "request body is required")
	}

	if len(r.UserText) > maxTextLength {
		return domainerrors.New(domainerrors.CodeValidation, "user_text must be at most 10000 characters")
	}
	if len(r.Images) > maxImageRefs {
		return domainerrors.New(domainerrors.CodeValidation, "at most 10 images per request")
	}
	for _, ref := range r.Images {
		if strings.TrimSpace(ref) == "" {
			return domainerrors.New(domainerrors.CodeValidation, "image references must be non-empty")
		}
	}

	r.RegisteredDomain = strings.ToLower(strings.TrimSpace(r.RegisteredDomain))
	if r.RegisteredDomain == "" {
		return domainerrors.New(domainerrors.CodeValidation, "registered_domain is required")
	}
	r.BusinessID = strings.TrimSpace(r.BusinessID)

	return nil
}

// ToServiceRequest maps the DTO onto the pipeline request.
func (r *AnalyzeRequest) ToServiceRequest() decision.AnalyzeRequest {
	return decision.AnalyzeRequest{
		Text:             r.UserText,
		Images:           r.Images,
		RegisteredDomain: r.RegisteredDomain,
		BusinessID:       r.BusinessID,
	}
}

// PredictionPayload is one caller-supplied modality prediction.
type PredictionPayload struct {
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
	IsRestricted bool    `json:"is_restricted"`
}

func (p *PredictionPayload) validate(field string) error {
	if strings.TrimSpace(p.Category) == "" {
		return domainerrors.New(domainerrors.CodeValidation, field+".category is required")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return domainerrors.New(domainerrors.CodeValidation, field+".confidence must be between 0 and 1")
	}
	return nil
}

func (p *PredictionPayload) toDomain(source domain.PredictionSource) domain.Prediction {
	return domain.Prediction{
		Category:     strings.ToLower(strings.TrimSpace(p.Category)),
		Confidence:   p.Confidence,
		IsRestricted: p.IsRestricted,
		Source:       source,
	}
}

// EvaluateRequest is the HTTP request body for POST /decision/evaluate.
// Callers either supply one fused prediction, or per-modality predictions
// that the service fuses with its configured weights.
type EvaluateRequest struct {
	Prediction       *PredictionPayload  `json:"prediction"`
	TextPrediction   *PredictionPayload  `json:"text_prediction"`
	ImagePredictions []PredictionPayload `json:"image_predictions"`
	RegisteredDomain string              `json:"registered_domain"`
	BusinessID       string              `json:"business_id"`
}

// Validate validates and normalizes the request.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return domainerrors.New(domainerrors.CodeBadRequest, "request body is required")
	}

	if r.Prediction == nil && r.TextPrediction == nil && len(r.ImagePredictions) == 0 {
		return domainerrors.New(domainerrors.CodeValidation, "prediction or per-modality predictions are required")
	}
	if r.Prediction != nil && (r.TextPrediction != nil || len(r.ImagePredictions) > 0) {
		return domainerrors.New(domainerrors.CodeValidation, "prediction and per-modality predictions are mutually exclusive")
	}

	if r.Prediction != nil {
		if err := r.Prediction.validate("prediction"); err != nil {
			return err
		}
	}
	if r.TextPrediction != nil {
		if err := r.TextPrediction.validate("text_prediction"); err != nil {
			return err
		}
	}
	for i := range r.ImagePredictions {
		if err := r.ImagePredictions[i].validate("image_predictions"); err != nil {
			return err
		}
	}

	r.RegisteredDomain = strings.ToLower(strings.TrimSpace(r.RegisteredDomain))
	if r.RegisteredDomain == "" {
		return domainerrors.New(domainerrors.CodeValidation, "registered_domain is required")
	}
	r.BusinessID = strings.TrimSpace(r.BusinessID)

	return nil
}

// Fused reports whether the caller supplied a single pre-fused prediction,
// and returns it when so.
func (r *EvaluateRequest) Fused() (domain.Prediction, bool) {
	if r.Prediction == nil {
		return domain.Prediction{}, false
	}
	return r.Prediction.toDomain(domain.SourceFused), true
}

// Modalities returns the per-modality predictions for fusion.
func (r *EvaluateRequest) Modalities() (*domain.Prediction, []domain.Prediction) {
	var text *domain.Prediction
	if r.TextPrediction != nil {
		p := r.TextPrediction.toDomain(domain.SourceText)
		text = &p
	}
	images := make([]domain.Prediction, 0, len(r.ImagePredictions))
	for i := range r.ImagePredictions {
		images = append(images, r.ImagePredictions[i].toDomain(domain.SourceImage))
	}
	return text, images
}
