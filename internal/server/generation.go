package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/shouni/go-amazebook-kit/pkg/domain"
	"github.com/shouni/go-amazebook-kit/pkg/generator"
	"github.com/shouni/go-amazebook-kit/pkg/payment"
	"github.com/shouni/go-amazebook-kit/pkg/project"

	"github.com/go-chi/chi/v5"
)

// handleGenerate は生成をバックグラウンドで開始し、202 を返します。
// 前提条件を満たさない場合は同期的に検証エラーを返します。
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	p, err := s.Projects.Get(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	// 202 を返す前に生成枠を確保し、同時のリクエストは片方だけを受け付けます。
	if p.Status.IsGenerating() || !s.Generator.Reserve(id) {
		fail(w, r, generator.ErrGenerationInProgress)
		return
	}
	if err := domain.ValidateForGeneration(p); err != nil {
		// 検証エラーを Error フィールドに記録させるため、外部呼び出しなしで終わる RunReserved を通す。
		if _, runErr := s.Generator.RunReserved(ctx, id); runErr != nil {
			err = runErr
		}
		fail(w, r, err)
		return
	}

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		s.runGeneration(context.WithoutCancel(ctx), id)
	}()

	JSON(w, http.StatusAccepted, p)
}

func (s *Server) runGeneration(ctx context.Context, id string) {
	p, err := s.Generator.RunReserved(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Book generation failed", "project_id", id, "error", err)
		return
	}
	if err := s.Examples.SaveExample(ctx, project.ExampleFromProject(p)); err != nil {
		slog.WarnContext(ctx, "Failed to save example", "project_id", id, "error", err)
	}
}

type purchaseRequest struct {
	PlanID     string `json:"planId"`
	CardNumber string `json:"cardNumber,omitempty"`
}

type purchaseResponse struct {
	Project       *domain.Project `json:"project"`
	Plan          payment.Plan    `json:"plan"`
	TransactionID string          `json:"transactionId"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body purchaseRequest
	if err := decode(r, &body); err != nil {
		fail(w, r, err)
		return
	}
	plan, ok := payment.FindPlan(body.PlanID)
	if !ok {
		fail(w, r, fmt.Errorf("%w: unknown plan %q", errBadRequest, body.PlanID))
		return
	}
	if _, err := s.Projects.Get(ctx, id); err != nil {
		fail(w, r, err)
		return
	}

	if body.CardNumber != "" {
		if err := s.Payments.VerifyCard(ctx, body.CardNumber); err != nil {
			fail(w, r, err)
			return
		}
	}
	res, err := s.Payments.ProcessPayment(ctx, plan.Price, payment.DefaultCurrency)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !res.Success {
		Error(w, http.StatusPaymentRequired, res.Error)
		return
	}

	p, err := s.Projects.MarkPurchased(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, purchaseResponse{Project: p, Plan: plan, TransactionID: res.TransactionID})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	p, err := s.Projects.Get(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := s.Publisher.Publish(ctx, p, path.Join(s.OutputDir, id))
	if err != nil {
		fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}
