package routes

import (
	"eventra/gateway"
	"eventra/middleware"
	"eventra/pay"
	"eventra/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddPayRoutes wires the payment flow to the router.
func AddPayRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, gw gateway.Client) {
	payService := pay.NewService(gw)

	router.POST("/api/payment",
		middleware.Chain(
			rl.Limit,
			middleware.Authenticate,
			pay.Idempotency,
		)(payService.Initiate),
	)

	// Provider redirect/webhook. Unauthenticated by nature; the handler
	// trusts nothing but its own verify call.
	router.GET("/api/payment/callback", payService.Callback)
}
