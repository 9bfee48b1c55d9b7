package handlers

import (
	"mime/multipart"
	"strconv"

	"hotelparadise/internal/app"
	incidentController "hotelparadise/internal/controllers/incidents"
	"hotelparadise/internal/handlers/middleware"
	. "hotelparadise/internal/models"
	"hotelparadise/internal/storage"
	"hotelparadise/internal/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const photosField = "photos"

type IncidentHandler struct {
	Handler
	incidentController incidentController.IncidentControllerInterface
}

func NewIncidentHandler(app app.App, router fiber.Router) *IncidentHandler {
	return &IncidentHandler{
		incidentController: app.Controllers.Incident,
		Handler:            newHandler(app, router, "incident_handler"),
	}
}

func (h *IncidentHandler) Register() {
	incidents := h.router.Group("/incidents")

	incidents.Get("/images/:folder/:filename", h.serveImage)

	staff := h.middleware.RequireRole(RoleAdmin, RoleHousekeeper)
	adminOnly := h.middleware.RequireRole(RoleAdmin)

	incidents.Get("/", staff, h.list)
	incidents.Get("/status/:status", adminOnly, h.listByStatus)
	incidents.Get("/pending-sync", adminOnly, h.listPendingSync)
	incidents.Get("/room/:id", staff, h.listByRoom)
	incidents.Get("/:id", staff, h.get)
	incidents.Post("/", staff, h.createMultipart)
	incidents.Post("/json", h.middleware.RequireRole(RoleHousekeeper), h.createJSON)
	incidents.Patch("/:id/status", adminOnly, h.updateStatus)
}

func (h *IncidentHandler) createMultipart(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return h.invalidBody(c)
	}

	req, err := incidentRequestFromForm(form)
	if err != nil {
		return h.handleError(c, err, "")
	}

	uploads, closeAll, err := openUploads(form.File[photosField])
	defer closeAll()
	if err != nil {
		return h.handleError(c, err, "Failed to read photos")
	}

	incident, err := h.incidentController.Create(c.UserContext(), middleware.GetUser(c), req, uploads)
	if err != nil {
		return h.handleError(c, err, "Failed to create incident")
	}
	return c.Status(fiber.StatusCreated).JSON(incident)
}

func (h *IncidentHandler) createJSON(c *fiber.Ctx) error {
	var req incidentController.IncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	incident, err := h.incidentController.Create(c.UserContext(), middleware.GetUser(c), req, nil)
	if err != nil {
		return h.handleError(c, err, "Failed to create incident")
	}
	return c.Status(fiber.StatusCreated).JSON(incident)
}

func incidentRequestFromForm(form *multipart.Form) (incidentController.IncidentRequest, error) {
	value := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	var req incidentController.IncidentRequest

	roomID, err := uuid.Parse(value("roomId"))
	if err != nil {
		return req, types.NewValidationError("roomId is required")
	}
	req.RoomID = roomID
	req.Title = value("title")

	if description := value("description"); description != "" {
		req.Description = &description
	}

	if offline := value("isOffline"); offline != "" {
		req.IsOffline, err = strconv.ParseBool(offline)
		if err != nil {
			return req, types.NewValidationError("isOffline must be true or false")
		}
	}

	return req, nil
}

// openUploads opens every file part. The returned func closes whatever was opened.
func openUploads(files []*multipart.FileHeader) ([]storage.Upload, func(), error) {
	opened := make([]multipart.File, 0, len(files))
	closeAll := func() {
		for _, file := range opened {
			_ = file.Close()
		}
	}

	uploads := make([]storage.Upload, 0, len(files))
	for _, header := range files {
		if header.Size == 0 {
			continue
		}
		file, err := header.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, file)
		uploads = append(uploads, storage.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Body:        file,
		})
	}

	return uploads, closeAll, nil
}

func (h *IncidentHandler) updateStatus(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	var req incidentController.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return h.invalidBody(c)
	}

	incident, err := h.incidentController.UpdateStatus(c.UserContext(), middleware.GetUser(c), id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update incident")
	}
	return c.JSON(incident)
}

func (h *IncidentHandler) get(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	incident, err := h.incidentController.Get(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to get incident")
	}
	return c.JSON(incident)
}

func (h *IncidentHandler) list(c *fiber.Ctx) error {
	incidents, err := h.incidentController.List(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to list incidents")
	}
	return c.JSON(incidents)
}

func (h *IncidentHandler) listByRoom(c *fiber.Ctx) error {
	id, err := h.paramID(c, "id")
	if err != nil {
		return h.handleError(c, err, "")
	}

	incidents, err := h.incidentController.ListByRoom(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to list incidents")
	}
	return c.JSON(incidents)
}

func (h *IncidentHandler) listByStatus(c *fiber.Ctx) error {
	incidents, err := h.incidentController.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return h.handleError(c, err, "Failed to list incidents")
	}
	return c.JSON(incidents)
}

func (h *IncidentHandler) listPendingSync(c *fiber.Ctx) error {
	incidents, err := h.incidentController.ListPendingSync(c.UserContext())
	if err != nil {
		return h.handleError(c, err, "Failed to list incidents")
	}
	return c.JSON(incidents)
}

func (h *IncidentHandler) serveImage(c *fiber.Ctx) error {
	body, contentType, err := h.incidentController.OpenImage(c.UserContext(), c.Params("folder"), c.Params("filename"))
	if err != nil {
		return h.handleError(c, err, "Failed to load image")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set("Cross-Origin-Resource-Policy", "cross-origin")
	return c.SendStream(body)
}
