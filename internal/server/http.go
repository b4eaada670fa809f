package server

import (
	"encoding/json"
	"io"
	stdhttp "net/http"
	"strings"
	"time"

	"imobi_tech/billing-service/internal/conf"
	bizerrors "imobi_tech/billing-service/internal/errors"
	"imobi_tech/billing-service/internal/service"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Bootstrap, billing *service.BillingService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.ErrorEncoder(customErrorEncoder),
	}
	if c.Server.Http.Addr != "" {
		opts = append(opts, http.Address(c.Server.Http.Addr))
	}
	if c.Server.Http.Timeout != "" {
		opts = append(opts, http.Timeout(conf.ParseDuration(c.Server.Http.Timeout, 0)))
	}
	srv := http.NewServer(opts...)

	registerBillingRoutes(srv, billing, log.NewHelper(logger))

	// 注册健康检查端点
	srv.Route("/").GET("/health", func(ctx http.Context) error {
		return ctx.Result(200, map[string]interface{}{
			"status":  "ok",
			"service": "billing-service",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return srv
}

func registerBillingRoutes(srv *http.Server, billing *service.BillingService, helper *log.Helper) {
	route := srv.Route("/")

	route.POST("/v1/subscriptions/activate", func(ctx http.Context) error {
		userID := ctx.Header().Get("X-User-Id")
		if userID == "" {
			return bizerrors.NewInvalidInput("Usuário não identificado")
		}
		var req service.ActivateRequest
		if err := ctx.Bind(&req); err != nil {
			return bizerrors.NewInvalidInput("Requisição inválida")
		}
		reply, err := billing.Activate(ctx, userID, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	route.GET("/v1/plans", func(ctx http.Context) error {
		reply, err := billing.ListPlans(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	route.POST("/v1/payments/pending", func(ctx http.Context) error {
		var req service.CreatePendingPaymentRequest
		if err := ctx.Bind(&req); err != nil {
			return bizerrors.NewInvalidInput("Requisição inválida")
		}
		reply, err := billing.CreatePendingPayment(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(201, reply)
	})

	route.GET("/v1/payments/pending/{id}", func(ctx http.Context) error {
		id := ctx.Vars().Get("id")
		reply, err := billing.GetPendingPayment(ctx, id)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	route.POST("/v1/payments/card", func(ctx http.Context) error {
		var req service.ProcessCardPaymentRequest
		if err := ctx.Bind(&req); err != nil {
			return bizerrors.NewInvalidInput("Requisição inválida")
		}
		reply, err := billing.ProcessCardPayment(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	// webhook: 签名无效返回 401; 其余错误记录日志后返回 202,
	// 避免网关对暂时性故障无限重发
	route.POST("/v1/webhooks/payment", func(ctx http.Context) error {
		payload, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			return bizerrors.NewInvalidInput("Requisição inválida")
		}
		signature := ctx.Header().Get("X-Hub-Signature")

		if err := billing.HandleWebhook(ctx, payload, signature); err != nil {
			if bizerrors.IsInvalidSignature(err) {
				return err
			}
			helper.Errorf("Webhook processing failed, acknowledging anyway: %v", err)
		}
		return ctx.Result(202, map[string]interface{}{"received": true})
	})
}

func customErrorEncoder(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	se := kerrors.FromError(err)
	status := stdhttp.StatusInternalServerError
	response := map[string]interface{}{
		"code":    status,
		"message": "internal server error",
	}

	if se != nil {
		status = mapErrorStatus(int(se.Code), se.Reason)
		response["code"] = se.Code
		response["reason"] = se.Reason
		response["message"] = se.Message
		if len(se.Metadata) > 0 {
			response["metadata"] = se.Metadata
		}
	} else if err != nil {
		response["message"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func mapErrorStatus(code int, reason string) int {
	if code >= 100 && code < 600 {
		return code
	}
	if reason == bizerrors.ReasonInvalidSignature {
		return stdhttp.StatusUnauthorized
	}
	if code >= 140000 && code < 150000 {
		if strings.HasSuffix(reason, "_NOT_FOUND") {
			return stdhttp.StatusNotFound
		}
		return stdhttp.StatusBadRequest
	}
	return stdhttp.StatusInternalServerError
}
