// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Envelope
//
// Every response, success or failure, is wrapped in the same JSON object:
//
//	{ "success": true,  "data": ..., "count": 3 }
//	{ "success": false, "message": "Article not found", "code": "NOT_FOUND" }
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/ctxkey"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Code    string              `json:"code,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 Created response with data wrapped in the success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, Envelope{Success: true, Data: data})
}

// List writes a 200 OK response carrying a collection and its length.
func List(writer http.ResponseWriter, data any, count int) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Message writes a 200 OK response with only a human-readable message.
func Message(writer http.ResponseWriter, msg string) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Message: msg})
}

// Error converts any Go error into the failure envelope.
//
// Non-[apperr.AppError] values become 500s. The cause of a 5xx is logged and
// only appended to the client message when the request was marked by
// middleware.ExposeErrors (development mode).
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	message := appError.Message

	if appError.HTTPStatus >= 500 {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", getRequestIDFromContext(request)),
			slog.Any("cause", appError.Cause),
		)

		if exposeErrors(request) && appError.Cause != nil {
			message = message + ": " + appError.Cause.Error()
		}
	}

	JSON(writer, appError.HTTPStatus, Envelope{
		Success: false,
		Message: message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

func getLoggerFromContext(request *http.Request) *slog.Logger {
	if logger, ok := request.Context().Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

func getRequestIDFromContext(request *http.Request) string {
	if id, ok := request.Context().Value(ctxkey.KeyRequestID).(string); ok {
		return id
	}
	return ""
}

func exposeErrors(request *http.Request) bool {
	expose, _ := request.Context().Value(ctxkey.KeyExposeErrors).(bool)
	return expose
}
