package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// apiClient returns a resty client for the service selected by --api.
func apiClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiFlag).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
}

// expectOK turns a non-2xx response into an error carrying the body.
func expectOK(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
