// Package http implements the HTTP request handlers for the EV registration
// dashboard API. It provides a thin layer between HTTP transport and the
// service layer, keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *Handler) HandleSomething(w http.ResponseWriter, r *http.Request) {
//	    // 1. Parse and validate request
//	    filter, err := filterFromQuery(r)
//	    if err != nil {
//	        h.errorHandler.HandleError(w, r, err)
//	        return
//	    }
//
//	    // 2. Call service layer
//	    result, err := h.service.DoSomething(r.Context(), filter)
//	    if err != nil {
//	        h.errorHandler.HandleError(w, r, mapServiceError(err))
//	        return
//	    }
//
//	    // 3. Format and send response
//	    render.JSON(w, r, envelope(result))
//	}
//
// # Testing
//
// Handlers are tested using httptest with a real service backed by small
// in-memory fixtures.
package http
