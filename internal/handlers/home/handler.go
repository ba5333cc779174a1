package home

import (
	"bytes"
	"embed"
	"html/template"
	"littlelemon/config"
	"littlelemon/infras/otel"
	"littlelemon/shared/constant"
	"littlelemon/shared/timezone"
	"littlelemon/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const defaultName = "Little Lemon"

//go:embed templates/index.html
var templates embed.FS

var index = template.Must(template.ParseFS(templates, "templates/index.html"))

type page struct {
	Name       string
	MenuURL    string
	BookingURL string
	Year       int
}

type Handler struct {
	cfg  *config.Config
	otel otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		cfg:  cfg,
		otel: otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/", handler.Index)
}

// Index renders the landing page.
// @Summary Landing page
// @Tags Home
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /api/ [get]
func (handler *Handler) Index(writer http.ResponseWriter, request *http.Request) {
	_, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Index")
	defer scope.End()

	name := handler.cfg.App.Name
	if name == "" {
		name = defaultName
	}

	var buf bytes.Buffer

	err := index.Execute(&buf, page{
		Name:       name,
		MenuURL:    "/api/menu/",
		BookingURL: "/api/booking/tables/",
		Year:       timezone.Now().Year(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to render landing page")
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeHTML)
	writer.WriteHeader(http.StatusOK)

	if _, err = buf.WriteTo(writer); err != nil {
		log.Error().Err(err).Msg("failed to write landing page")
	}
}
