package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/models"
	"github.com/povarna/generative-ai-agents/prompt-agent/internal/parser"
)

func RegisterRoutes(container *restful.Container, handler *Handler, filters ...restful.FilterFunction) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	for _, f := range filters {
		ws.Filter(f)
	}

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(models.HealthResponse{}).
			Returns(200, "OK", models.HealthResponse{}))

	ws.
		Route(ws.POST("/one-shot").
			To(handler.OneShot).
			Doc("Send the input to the model as a single prompt").
			Metadata(restfulspec.KeyOpenAPITags, []string{"prompts"}).
			Reads(models.OneShotRequest{}).
			Writes(models.Completion{}).
			Returns(200, "OK", models.Completion{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/one-shot/stream").
			To(handler.OneShotStream).
			Doc("Stream the one-shot completion as server-sent events").
			Metadata(restfulspec.KeyOpenAPITags, []string{"prompts"}).
			Reads(models.OneShotRequest{}).
			Produces(restful.MIME_JSON, "text/event-stream").
			Returns(200, "Event stream", nil).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/language-translator").
			To(handler.Translate).
			Doc("Translate text with a system and human chat template").
			Metadata(restfulspec.KeyOpenAPITags, []string{"prompts"}).
			Reads(models.TranslateRequest{}).
			Writes(models.Completion{}).
			Returns(200, "OK", models.Completion{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/few-shot").
			To(handler.FewShot).
			Doc("Answer a question after worked examples").
			Metadata(restfulspec.KeyOpenAPITags, []string{"prompts"}).
			Reads(models.FewShotRequest{}).
			Writes(models.Completion{}).
			Returns(200, "OK", models.Completion{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/add").
			To(handler.Add).
			Doc("Run the tool-calling agent with the Add tool").
			Metadata(restfulspec.KeyOpenAPITags, []string{"agents"}).
			Reads(models.AddRequest{}).
			Writes(models.AgentAnswer{}).
			Returns(200, "OK", models.AgentAnswer{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/process-document").
			To(handler.ProcessDocument).
			Doc("Extract a structured summary from a document").
			Metadata(restfulspec.KeyOpenAPITags, []string{"extraction"}).
			Reads(models.ProcessDocumentRequest{}).
			Writes(parser.TextDocument{}).
			Returns(200, "OK", parser.TextDocument{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
