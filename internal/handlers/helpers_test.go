package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tienda-backend/internal/sales"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondSalesError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			"not found",
			&sales.Error{Kind: sales.KindNotFound, Message: "Orden no encontrada"},
			http.StatusNotFound,
			`{"error":"Orden no encontrada"}`,
		},
		{
			"invalid input",
			&sales.Error{Kind: sales.KindInvalidInput, Message: "El método de entrega requiere una dirección"},
			http.StatusBadRequest,
			`{"error":"El método de entrega requiere una dirección"}`,
		},
		{
			"invalid state",
			&sales.Error{Kind: sales.KindInvalidState, Message: "Esta orden no es elegible para pago en efectivo"},
			http.StatusConflict,
			`{"error":"Esta orden no es elegible para pago en efectivo"}`,
		},
		{
			"invalid transition",
			&sales.Error{Kind: sales.KindInvalidTransition, Message: "Transición no permitida de 'SHIPPED' a 'CANCELLED'"},
			http.StatusConflict,
			`{"error":"Transición no permitida de 'SHIPPED' a 'CANCELLED'"}`,
		},
		{
			"unauthorized",
			&sales.Error{Kind: sales.KindUnauthorized, Message: "Perfil de cliente no encontrado para el usuario autenticado"},
			http.StatusUnauthorized,
			`{"error":"Perfil de cliente no encontrado para el usuario autenticado"}`,
		},
		{
			"internal message is hidden",
			&sales.Error{Kind: sales.KindInternal, Message: "db exploded", Err: errors.New("boom")},
			http.StatusInternalServerError,
			`{"error":"error interno del servidor"}`,
		},
		{
			"foreign error treated as internal",
			errors.New("boom"),
			http.StatusInternalServerError,
			`{"error":"error interno del servidor"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondSalesError(c, "TEST", tc.err)

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if w.Body.String() != tc.wantBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil || page != 1 || limit != 20 {
		t.Errorf("defaults = (%d, %d, %v), want (1, 20, nil)", page, limit, err)
	}

	page, limit, err = parsePaginationParams("3", "50")
	if err != nil || page != 3 || limit != 50 {
		t.Errorf("parsed = (%d, %d, %v), want (3, 50, nil)", page, limit, err)
	}

	for _, bad := range [][2]string{{"0", "10"}, {"-1", "10"}, {"x", "10"}, {"1", "0"}, {"1", "y"}} {
		if _, _, err := parsePaginationParams(bad[0], bad[1]); err == nil {
			t.Errorf("parsePaginationParams(%q, %q) accepted invalid input", bad[0], bad[1])
		}
	}
}

func TestLowerCamel(t *testing.T) {
	cases := map[string]string{
		"CustomerEmail": "customerEmail",
		"Items":         "items",
		"":              "",
	}
	for in, want := range cases {
		if got := lowerCamel(in); got != want {
			t.Errorf("lowerCamel(%q) = %q, want %q", in, got, want)
		}
	}
}
