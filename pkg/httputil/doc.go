// Package httputil provides HTTP handler utilities for consistent error handling,
// JSON encoding/decoding, and request parsing.
//
// # Overview
//
// Response helpers write JSON bodies with standard shapes:
//
//	httputil.WriteSuccess(w, payload)          // 200 with data
//	httputil.WriteForbidden(w, "forbidden")    // 403 {"error": "forbidden"}
//	httputil.WriteInternalError(w)             // 500, always generic
//
// Request helpers parse bodies and mux path parameters:
//
//	var req updateSettingRequest
//	if !httputil.ParseJSONOrError(w, r, &req) { return }
//
// Middleware covers request IDs, structured request logging, panic recovery,
// and body size limits; compose with Chain:
//
//	handler := httputil.Chain(
//	    httputil.RequestIDMiddleware,
//	    httputil.LoggingMiddleware(logger),
//	    httputil.RecoveryMiddleware(logger),
//	)(router)
package httputil
