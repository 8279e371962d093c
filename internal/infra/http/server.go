package http

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gymdesk/gymdesk/internal/infra/metrics"
)

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, h *Handlers) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		metrics.MustRegister()
		mux.Handle("/metrics", promhttp.Handler())
	}

	mux.HandleFunc("POST /attendance/check-in", h.CheckIn)
	mux.HandleFunc("POST /attendance/{id}/check-out", h.CheckOut)
	mux.HandleFunc("DELETE /attendance/{id}", h.DeleteAttendance)
	mux.HandleFunc("GET /attendance", h.ListAttendance)
	mux.HandleFunc("GET /attendance/today", h.TodayAttendance)
	mux.HandleFunc("GET /attendance/export", h.ExportAttendance)
	mux.HandleFunc("POST /members/search", h.SearchMembers)

	mux.HandleFunc("POST /payments", h.CreatePayment)
	mux.HandleFunc("POST /payments/{id}/status", h.UpdatePaymentStatus)
	mux.HandleFunc("GET /payments", h.ListPayments)
	mux.HandleFunc("GET /payments/pending", h.PendingPayments)
	mux.HandleFunc("GET /payments/due-members", h.DueMembers)
	mux.HandleFunc("GET /payments/export", h.ExportPayments)

	mux.HandleFunc("GET /plans", h.ListPlans)
	mux.HandleFunc("GET /plans/{id}/price", h.PlanPrice)

	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
