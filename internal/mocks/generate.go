// Package mocks provides gomock implementations of the ingestion service's
// ports for tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=warehouse_mock.go jobmate/ingestion-service/internal/warehouse Warehouse
