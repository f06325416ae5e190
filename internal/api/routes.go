package api

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/debate-agent/internal/api/middleware"
)

const OpenAPIPath = "/apidocs.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	// Clients are not required to send a Content-Type.
	ws.
		Route(ws.POST("/generate").
			To(handler.Generate).
			AllowedMethodsWithoutContentType([]string{http.MethodPost}).
			Doc("Generate tweet replies or thread hooks").
			Metadata(restfulspec.KeyOpenAPITags, []string{"generate"}).
			Param(ws.HeaderParameter("X-Forwarded-For", "Caller address used for the daily quota").DataType("string").Required(false)).
			Reads(GenerateRequest{}).
			Writes(GenerateResponse{}).
			Returns(200, "OK", GenerateResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(405, "Method Not Allowed", middleware.ErrorResponse{}).
			Returns(429, "Daily Limit Reached", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
	container.ServiceErrorHandler(middleware.ServiceErrorHandler)
}

// RegisterOpenAPI serves the OpenAPI document for every registered web service.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Debate Agent API",
			Description: "Tweet reply and thread hook generation",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "generate", Description: "Content generation"}},
	}
}
