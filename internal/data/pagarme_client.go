package data

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"imobi_tech/billing-service/internal/biz"
	"imobi_tech/billing-service/internal/conf"
	"imobi_tech/billing-service/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
)

// pagarmeClient Pagar.me Core v5 网关客户端
type pagarmeClient struct {
	apiURL              string
	apiKey              string
	statementDescriptor string
	webhookSecret       string
	httpClient          *http.Client
	log                 *log.Helper
}

// NewPaymentGateway 创建支付网关客户端
func NewPaymentGateway(c *conf.Bootstrap, logger log.Logger) biz.PaymentGateway {
	pg := c.Client.Pagarme
	return &pagarmeClient{
		apiURL:              strings.TrimRight(pg.ApiUrl, "/"),
		apiKey:              pg.ApiKey,
		statementDescriptor: pg.StatementDescriptor,
		webhookSecret:       pg.WebhookSecret,
		httpClient: &http.Client{
			Timeout: conf.ParseDuration(pg.Timeout, constants.DefaultGatewayTimeout),
		},
		log: log.NewHelper(logger),
	}
}

type pagarmeCustomer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document,omitempty"`
	Type     string `json:"type"`
}

type pagarmeItem struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type pagarmeCreditCard struct {
	Installments        int    `json:"installments"`
	StatementDescriptor string `json:"statement_descriptor,omitempty"`
	CardToken           string `json:"card_token"`
}

type pagarmePayment struct {
	PaymentMethod string            `json:"payment_method"`
	CreditCard    pagarmeCreditCard `json:"credit_card"`
}

type pagarmeOrderRequest struct {
	Code     string            `json:"code"`
	Closed   bool              `json:"closed"`
	Customer pagarmeCustomer   `json:"customer"`
	Items    []pagarmeItem     `json:"items"`
	Payments []pagarmePayment  `json:"payments"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type pagarmeCharge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type pagarmeOrderResponse struct {
	ID       string            `json:"id"`
	Code     string            `json:"code"`
	Status   string            `json:"status"`
	Charges  []pagarmeCharge   `json:"charges"`
	Metadata map[string]string `json:"metadata"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
}

func (c *pagarmeClient) CreateOrder(ctx context.Context, req *biz.OrderRequest) (*biz.Order, error) {
	body := pagarmeOrderRequest{
		Code:   req.ExternalReference,
		Closed: true,
		Customer: pagarmeCustomer{
			Name:     req.CustomerName,
			Email:    req.CustomerEmail,
			Document: req.CustomerDocument,
			Type:     "individual",
		},
		Items: []pagarmeItem{{
			Amount:      req.UnitPrice,
			Description: req.Title,
			Quantity:    req.Quantity,
		}},
		Payments: []pagarmePayment{{
			PaymentMethod: "credit_card",
			CreditCard: pagarmeCreditCard{
				Installments:        req.Installments,
				StatementDescriptor: c.statementDescriptor,
				CardToken:           req.CardToken,
			},
		}},
		Metadata: map[string]string{
			"external_reference": req.ExternalReference,
		},
	}

	var resp pagarmeOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}

	status, err := biz.ParseOrderStatus(c.normalizeStatus(resp.Status))
	if err != nil {
		return nil, err
	}
	order := &biz.Order{ID: resp.ID, Status: status}
	for _, ch := range resp.Charges {
		chStatus, err := biz.ParseOrderStatus(c.normalizeStatus(ch.Status))
		if err != nil {
			c.log.Warnf("Unknown charge status from gateway: %s", ch.Status)
			continue
		}
		order.Charges = append(order.Charges, biz.Charge{ID: ch.ID, Status: chStatus})
	}
	return order, nil
}

func (c *pagarmeClient) GetOrder(ctx context.Context, orderID string) (*biz.OrderInfo, error) {
	var resp pagarmeOrderResponse
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &resp); err != nil {
		return nil, err
	}
	status, err := biz.ParseOrderStatus(c.normalizeStatus(resp.Status))
	if err != nil {
		return nil, err
	}
	ref := resp.Metadata["external_reference"]
	if ref == "" {
		ref = resp.Code
	}
	return &biz.OrderInfo{
		ID:                resp.ID,
		Status:            status,
		ExternalReference: ref,
		CustomerEmail:     resp.Customer.Email,
	}, nil
}

// pagarmeWebhookEvent webhook 事件结构
type pagarmeWebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID    string `json:"id"`
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	} `json:"data"`
}

// ProcessWebhook 解析 webhook 事件
// 只处理 order.paid 和 charge.paid, 其余事件直接确认; 订单详情以主动查询结果为准
func (c *pagarmeClient) ProcessWebhook(ctx context.Context, payload []byte) (*biz.WebhookResult, error) {
	var event pagarmeWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if event.Type != "order.paid" && event.Type != "charge.paid" {
		c.log.Infof("Ignoring webhook event type: %s", event.Type)
		return &biz.WebhookResult{Handled: false}, nil
	}

	orderID := event.Data.ID
	if event.Type == "charge.paid" && event.Data.Order.ID != "" {
		orderID = event.Data.Order.ID
	}
	if orderID == "" {
		return nil, fmt.Errorf("webhook event %s has no order id", event.ID)
	}

	info, err := c.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &biz.WebhookResult{
		Handled:           true,
		OrderID:           info.ID,
		Status:            info.Status,
		ExternalReference: info.ExternalReference,
	}, nil
}

// ValidateWebhookSignature 校验 HMAC-SHA256 签名
// 未配置 secret 时跳过校验 (本地开发环境)
func (c *pagarmeClient) ValidateWebhookSignature(payload []byte, signature string) bool {
	if c.webhookSecret == "" {
		return true
	}
	signature = strings.TrimPrefix(signature, "sha256=")
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// normalizeStatus 归一网关状态别名
func (c *pagarmeClient) normalizeStatus(s string) string {
	switch s {
	case "waiting_payment":
		return string(biz.OrderStatusPending)
	default:
		return s
	}
}

func (c *pagarmeClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.apiKey+":")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Errorf("Gateway request %s %s failed: status=%d, body=%s", method, path, resp.StatusCode, string(data))
		return fmt.Errorf("gateway request failed with status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}
	return nil
}
