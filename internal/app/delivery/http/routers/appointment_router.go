package routers

import (
	"appointment-service/internal/app/delivery/http/controllers"
	"appointment-service/internal/pkg/constvars"
	"fmt"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, appointmentController *controllers.AppointmentController) {
	idPattern := fmt.Sprintf("/{%s}", constvars.URLParamAppointmentID)

	router.Get("/", appointmentController.FindAll)
	router.Post("/", appointmentController.CreateAppointment)
	router.Get(idPattern, appointmentController.FindByID)
	router.Put(idPattern, appointmentController.UpdateAppointment)
	router.Patch(idPattern+"/status", appointmentController.UpdateStatus)
	router.Delete(idPattern, appointmentController.CancelAppointment)
	router.Delete(idPattern+"/purge", appointmentController.PurgeAppointment)
}
