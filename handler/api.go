package handler

import (
	"encoding/json"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tony-montemuro/webserver/message"
)

const ordersFile = "orders.json"

// WebService is the API family. It serves /api/shipping/orders from the
// orders file in the data directory.
type WebService struct {
	Files    FileLoader
	DataPath string
	Auth     *Authenticator
	Logger   zerolog.Logger
}

func (h WebService) Handle(req *message.Request) message.Response {
	subject, err := h.Auth.Authenticate(req)
	if err != nil {
		// 401 has no entry in the status table, so the API stays hidden.
		h.Logger.Info().Err(err).Str("path", req.Resource.Path()).Msg("api request rejected")
		return notFound(h.Files)
	}

	if req.Resource.Segment(1) == "shipping" && req.Resource.Segment(2) == "orders" {
		return h.orders(subject)
	}

	return notFound(h.Files)
}

func (h WebService) orders(subject string) message.Response {
	path := filepath.Join(h.DataPath, ordersFile)

	orders, err := LoadOrders(path)
	if err != nil {
		err = message.NewServerError("could not load orders: %s", err.Error())
		h.Logger.Error().Err(err).Str("path", path).Msg("orders unavailable")
		return message.ErrorResponse(err)
	}

	body, err := json.Marshal(orders)
	if err != nil {
		err = message.NewServerError("could not encode orders: %s", err.Error())
		h.Logger.Error().Err(err).Msg("orders unavailable")
		return message.ErrorResponse(err)
	}

	h.Logger.Debug().Str("subject", subject).Int("orders", len(orders)).Msg("orders listed")
	return message.NewResponse(message.StatusOK, message.ContentType("application/json"), string(body))
}
