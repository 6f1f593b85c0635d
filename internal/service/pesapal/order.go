package pesapal

import (
	"acadeemia/entity"
	"context"
	"fmt"
	"net/http"
)

type orderRequest struct {
	ID             string                `json:"id"`
	Currency       string                `json:"currency"`
	Amount         float64               `json:"amount"`
	Description    string                `json:"description"`
	CallbackURL    string                `json:"callback_url"`
	NotificationID string                `json:"notification_id"`
	BillingAddress entity.BillingAddress `json:"billing_address"`
}

type orderResponse struct {
	OrderTrackingID   string        `json:"order_tracking_id"`
	MerchantReference string        `json:"merchant_reference"`
	RedirectURL       string        `json:"redirect_url"`
	Error             *gatewayError `json:"error"`
}

// SubmitOrder submits the order and returns the hosted payment page to redirect to.
func (s *Service) SubmitOrder(ctx context.Context, token string, order *entity.GatewayOrderRequest) (*entity.OrderResponse, error) {
	var resp orderResponse
	err := s.call(ctx, opSubmitOrder, http.MethodPost, "/api/Transactions/SubmitOrderRequest", token, orderRequest{
		ID:             order.ID,
		Currency:       order.Currency,
		Amount:         order.Amount.InexactFloat64(),
		Description:    order.Description,
		CallbackURL:    order.CallbackURL,
		NotificationID: order.NotificationID,
		BillingAddress: order.BillingAddress,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrder, err)
	}
	if resp.OrderTrackingID == "" {
		if !resp.Error.empty() {
			return nil, fmt.Errorf("%w: %w", ErrOrder, resp.Error.apiError(opSubmitOrder, http.StatusOK))
		}
		return nil, fmt.Errorf("%w: no order_tracking_id in response", ErrOrder)
	}
	return &entity.OrderResponse{
		OrderTrackingID:   resp.OrderTrackingID,
		MerchantReference: resp.MerchantReference,
		RedirectURL:       resp.RedirectURL,
	}, nil
}
