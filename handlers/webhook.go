package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"hallbook/config"
	"hallbook/services/payment/gateway"
	"hallbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaystackWebhookHandler receives gateway events. The HMAC-SHA512
// signature over the raw body is mandatory; unsigned or mis-signed
// requests are rejected before any parsing.
func (hb *HandlerBundle) PaystackWebhookHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read body", err.Error())
		return
	}

	signature := c.GetHeader("X-Paystack-Signature")
	if !gateway.VerifyWebhookSignature(config.AppConfig.PaystackSecretKey, body, signature) {
		utils.GetLogger().Warn("Rejected webhook with bad signature", zap.String("ip", c.ClientIP()))
		utils.JSONError(c, http.StatusUnauthorized, "invalid signature", "")
		return
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	if err := hb.Payments.HandleWebhookEvent(c.Request.Context(), event.Event, event.Data.Reference); err != nil {
		// A non-2xx makes the gateway redeliver, which is what we want on
		// transient failures.
		utils.GetLogger().Error("Webhook handling failed",
			zap.String("event", event.Event),
			zap.String("reference", event.Data.Reference),
			zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to process event", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
