package appointments

import (
	"appointment-service/internal/app/contracts"
	"appointment-service/internal/app/models"
	"appointment-service/internal/pkg/exceptions"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testDatabase = "appointment_service_test"

func newMockedRepository(mt *mtest.T) *AppointmentMongoRepository {
	repo := NewAppointmentMongoRepository(mt.Client, testDatabase)
	return repo.(*AppointmentMongoRepository)
}

func headerDoc(appointmentID string, status models.AppointmentStatus, versionID string, participants ...bson.D) bson.D {
	now := time.Now().UTC().Truncate(time.Millisecond)
	participantArray := bson.A{}
	for _, participant := range participants {
		participantArray = append(participantArray, participant)
	}
	return bson.D{
		{Key: "_id", Value: appointmentID},
		{Key: "resourceType", Value: "Appointment"},
		{Key: "meta", Value: bson.D{
			{Key: "versionId", Value: versionID},
			{Key: "lastUpdated", Value: now},
		}},
		{Key: "status", Value: status},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
		{Key: "participants", Value: participantArray},
	}
}

func participantDoc(id, appointmentID string, position int, reference string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "appointmentId", Value: appointmentID},
		{Key: "position", Value: position},
		{Key: "actor", Value: bson.D{{Key: "reference", Value: reference}}},
		{Key: "status", Value: models.ParticipantStatusAccepted},
	}
}

func TestAppointmentMongoRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the written state without a re-read", func(mt *mtest.T) {
		repo := newMockedRepository(mt)

		// Only the transactional writes are answered. A re-read after
		// commit would issue an extra command with no response queued
		// and fail the call.
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // header insert
			mtest.CreateSuccessResponse(), // participant insert
			mtest.CreateSuccessResponse(), // commitTransaction
		)

		created, err := repo.Create(context.Background(), &models.Appointment{
			Status: models.AppointmentStatusBooked,
			Participants: []models.Participant{
				{Actor: models.ActorReference{Reference: "Patient/1", Type: "Patient"}, Status: models.ParticipantStatusAccepted},
				{Actor: models.ActorReference{Reference: "Practitioner/2", Type: "Practitioner"}, Status: models.ParticipantStatusTentative},
			},
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "1", created.Meta.VersionID)
		assert.Len(t, created.Participants, 2)
		for index, participant := range created.Participants {
			assert.Equal(t, created.ID, participant.AppointmentID)
			assert.Equal(t, index, participant.Position)
			assert.NotEmpty(t, participant.ID)
		}
	})

	mt.Run("participant insert failure aborts the whole create", func(mt *mtest.T) {
		repo := newMockedRepository(mt)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(), // header insert
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "duplicate key",
			}),
			mtest.CreateSuccessResponse(), // abortTransaction
		)

		created, err := repo.Create(context.Background(), &models.Appointment{
			Status: models.AppointmentStatusBooked,
			Participants: []models.Participant{
				{Actor: models.ActorReference{Reference: "Patient/1", Type: "Patient"}, Status: models.ParticipantStatusAccepted},
			},
		})

		assert.Nil(t, created)
		customErr := &exceptions.CustomError{}
		assert.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusInternalServerError, customErr.StatusCode)
	})
}

func TestAppointmentMongoRepositoryFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := testDatabase + ".appointments"

	mt.Run("single aggregation returns header with ordered participants", func(mt *mtest.T) {
		repo := newMockedRepository(mt)

		// One cursor response for one command. A second store round
		// trip for the participants would find the queue empty.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			headerDoc("appt-1", models.AppointmentStatusBooked, "3",
				participantDoc("part-1", "appt-1", 0, "Patient/1"),
				participantDoc("part-2", "appt-1", 1, "Practitioner/2"),
			),
		))

		appointment, err := repo.FindByID(context.Background(), "appt-1")

		assert.NoError(t, err)
		assert.NotNil(t, appointment)
		assert.Equal(t, "appt-1", appointment.ID)
		assert.Equal(t, "3", appointment.Meta.VersionID)
		assert.Len(t, appointment.Participants, 2)
		assert.Equal(t, "Patient/1", appointment.Participants[0].Actor.Reference)
		assert.Equal(t, "Practitioner/2", appointment.Participants[1].Actor.Reference)
	})

	mt.Run("missing appointment yields nil without error", func(mt *mtest.T) {
		repo := newMockedRepository(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		appointment, err := repo.FindByID(context.Background(), "missing")
		assert.NoError(t, err)
		assert.Nil(t, appointment)
	})
}

func TestAppointmentMongoRepositoryFindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := testDatabase + ".appointments"

	mt.Run("pages come back with their participants joined", func(mt *mtest.T) {
		repo := newMockedRepository(mt)

		mt.AddMockResponses(
			// CountDocuments consumes an aggregate cursor carrying n.
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 2}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				headerDoc("appt-2", models.AppointmentStatusBooked, "1",
					participantDoc("part-3", "appt-2", 0, "Patient/2"),
				),
				headerDoc("appt-1", models.AppointmentStatusBooked, "1",
					participantDoc("part-1", "appt-1", 0, "Patient/1"),
				),
			),
		)

		status := models.AppointmentStatusBooked
		appointments, total, err := repo.FindAll(context.Background(), contracts.AppointmentFilter{
			Status: &status, Page: 1, PageSize: 20,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, appointments, 2)
		assert.Equal(t, "appt-2", appointments[0].ID)
		assert.Len(t, appointments[0].Participants, 1)
		assert.Equal(t, "Patient/2", appointments[0].Participants[0].Actor.Reference)
		assert.Len(t, appointments[1].Participants, 1)
	})
}
