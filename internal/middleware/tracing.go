package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// blogResources maps API route segments to the entity an :id parameter names.
var blogResources = map[string]string{
	"auth":       "",
	"users":      "user",
	"categories": "category",
	"posts":      "post",
	"admin":      "",
}

// TracingMiddleware opens a server span per request. The span is named after
// the matched route pattern, so /api/posts/7/ and /api/posts/8/ share "GET /api/posts/:id".
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(http.Header(c.GetReqHeaders())))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(context.WithValue(ctx, TraceIDKey, traceID))

		err := c.Next()

		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(attribute.String("http.route", route))
		span.SetAttributes(blogAttributes(c, route)...)

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
		}
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		// Set by the auth guards once the caller is known.
		if userID := c.Locals("userID"); userID != nil {
			span.SetAttributes(attribute.String("enduser.id", fmt.Sprintf("%v", userID)))
		}
		return err
	}
}

// blogAttributes tags the span with the resource and the ids named in the path.
func blogAttributes(c *fiber.Ctx, route string) []attribute.KeyValue {
	segment, _, _ := strings.Cut(strings.TrimPrefix(route, "/api/"), "/")
	entity, ok := blogResources[segment]
	if !ok {
		return nil
	}

	attrs := []attribute.KeyValue{attribute.String("blog.resource", segment)}
	if id := c.Params("id"); id != "" && entity != "" {
		attrs = append(attrs, attribute.String("blog."+entity+".id", id))
	}
	if category := c.Query("category"); category != "" && segment == "posts" {
		attrs = append(attrs, attribute.String("blog.category.id", category))
	}
	return attrs
}
