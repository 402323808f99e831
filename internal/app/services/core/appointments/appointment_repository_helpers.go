package appointments

import (
	"appointment-service/internal/app/contracts"
	"appointment-service/internal/app/models"
	"appointment-service/internal/pkg/constvars"
	"appointment-service/internal/pkg/utils"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// normalizePageWindow applies the pagination defaults and the hard page size
// ceiling. The repository is the final authority on the clamp regardless of
// what upstream layers pass.
func normalizePageWindow(page, pageSize int) (int, int) {
	if page <= 0 {
		page = constvars.AppointmentDefaultPage
	}
	if pageSize <= 0 {
		pageSize = constvars.AppointmentDefaultPageSize
	}
	if pageSize > constvars.AppointmentMaxPageSize {
		pageSize = constvars.AppointmentMaxPageSize
	}
	return page, pageSize
}

// bumpVersionID advances the string-encoded monotonic version counter.
func bumpVersionID(current string) string {
	version, err := strconv.Atoi(current)
	if err != nil {
		version = 0
	}
	return strconv.Itoa(version + 1)
}

// buildParticipantRows stamps the rows exactly as they will be persisted, so
// a caller can hand back the written state without re-reading it.
func buildParticipantRows(appointmentID string, participants []models.Participant, now time.Time) []models.Participant {
	rows := make([]models.Participant, 0, len(participants))
	for index, participant := range participants {
		participant.ID = utils.GenerateAppointmentID()
		participant.AppointmentID = appointmentID
		participant.Position = index
		participant.CreatedAt = now
		participant.UpdatedAt = now
		rows = append(rows, participant)
	}
	return rows
}

func participantInsertDocs(rows []models.Participant) []interface{} {
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	return docs
}

func applyHeaderChanges(set bson.M, update contracts.AppointmentUpdate) {
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Start != nil {
		set["start"] = *update.Start
	}
	if update.End != nil {
		set["end"] = *update.End
	}
	if update.MinutesDuration != nil {
		set["minutesDuration"] = *update.MinutesDuration
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.Comment != nil {
		set["comment"] = *update.Comment
	}
	if update.PatientInstruction != nil {
		set["patientInstruction"] = *update.PatientInstruction
	}
}
