package handler

import (
	"encoding/json"
	"fmt"
	"os"
)

type OrderStatus struct {
	OrderID     int    `json:"order_id"`
	OrderDate   string `json:"order_date"`
	OrderStatus string `json:"order_status"`
}

func LoadOrders(path string) ([]OrderStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read orders: %w", err)
	}

	var orders []OrderStatus
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("invalid orders file %s: %w", path, err)
	}

	if orders == nil {
		orders = []OrderStatus{}
	}
	return orders, nil
}
