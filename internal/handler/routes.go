package handler

import "net/http"

// Routes は contacts API のルーティングとミドルウェアを組み立てる
func Routes(h *Handler, contacts *ContactHandler, submitLimiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("GET /api/contacts", contacts.List)
	mux.HandleFunc("PATCH /api/contacts/{id}", contacts.UpdateStatus)
	mux.HandleFunc("DELETE /api/contacts/{id}", contacts.Delete)

	// 公開フォーム送信のみレート制限
	var submit http.Handler = http.HandlerFunc(contacts.Submit)
	if submitLimiter != nil {
		submit = submitLimiter.Middleware(submit)
	}
	mux.Handle("POST /api/contacts", submit)

	return RequestLogger(SecurityHeaders(h.CORS(mux)))
}
