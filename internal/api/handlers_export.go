package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nutriapp/internal/services"
)

func (handler *Handler) ExportHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		return serviceError(c, err)
	}

	table, err := handler.reports.BuildExport(c.UserContext(), userID, c.Query("from_date"), c.Query("to_date"), handler.requestLocation(c))
	if err != nil {
		return serviceError(c, err)
	}

	var output bytes.Buffer
	switch format {
	case services.ExportFormatCSV:
		err = services.WriteCSV(&output, table)
	default:
		err = services.WriteXLSX(&output, table)
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, format.ContentType(), services.ExportFilename(table.Interval, format))
	return c.Send(output.Bytes())
}
