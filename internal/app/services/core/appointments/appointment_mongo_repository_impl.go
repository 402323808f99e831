package appointments

import (
	"appointment-service/internal/app/contracts"
	"appointment-service/internal/app/models"
	"appointment-service/internal/pkg/constvars"
	"appointment-service/internal/pkg/exceptions"
	"appointment-service/internal/pkg/utils"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppointmentMongoRepository persists the appointment header and its
// participant rows in two collections. Every multi-document mutation runs in
// a session transaction so a fault midway leaves the previously committed
// state, never a half-written appointment. Reads join the two collections in
// a single aggregation, so a header is always returned with the participant
// rows of the same committed version.
type AppointmentMongoRepository struct {
	Client       *mongo.Client
	Appointments *mongo.Collection
	Participants *mongo.Collection
}

func NewAppointmentMongoRepository(db *mongo.Client, dbName string) contracts.AppointmentRepository {
	return &AppointmentMongoRepository{
		Client:       db,
		Appointments: db.Database(dbName).Collection(constvars.MongoCollectionAppointments),
		Participants: db.Database(dbName).Collection(constvars.MongoCollectionParticipants),
	}
}

// appointmentRecord is the shape produced by the participant lookup stage:
// the header fields inline plus the joined participant rows.
type appointmentRecord struct {
	models.Appointment `bson:",inline"`
	ParticipantRows    []models.Participant `bson:"participants"`
}

func (rec *appointmentRecord) toModel() *models.Appointment {
	appointment := rec.Appointment
	appointment.Participants = rec.ParticipantRows
	return &appointment
}

// participantLookupStage joins the participant rows onto the header within
// the same aggregation, ordered by their stored position.
func participantLookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from": constvars.MongoCollectionParticipants,
		"let":  bson.M{"appointmentId": "$_id"},
		"pipeline": mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{"$appointmentId", "$$appointmentId"}}}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "position", Value: 1}}}},
		},
		"as": "participants",
	}}}
}

func (r *AppointmentMongoRepository) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return exceptions.ErrMongoDBTransaction(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) {
			return customErr
		}
		return exceptions.ErrMongoDBTransaction(err)
	}
	return nil
}

func (r *AppointmentMongoRepository) Create(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	now := time.Now().UTC()

	appointment.ID = utils.GenerateAppointmentID()
	appointment.ResourceType = constvars.FhirResourceTypeAppointment
	appointment.Meta = models.Meta{VersionID: "1", LastUpdated: now}
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	rows := buildParticipantRows(appointment.ID, appointment.Participants, now)

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.Appointments.InsertOne(sc, appointment); err != nil {
			return exceptions.ErrMongoDBInsertDocument(err)
		}
		if len(rows) > 0 {
			if _, err := r.Participants.InsertMany(sc, participantInsertDocs(rows)); err != nil {
				return exceptions.ErrMongoDBInsertDocument(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The result is materialized from the documents just written. A
	// re-fetch here could race a concurrent purge and return nothing for
	// an appointment that was successfully created.
	appointment.Participants = rows
	return appointment, nil
}

func (r *AppointmentMongoRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": appointmentID}}},
		participantLookupStage(),
	}

	cursor, err := r.Appointments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var records []appointmentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return records[0].toModel(), nil
}

func (r *AppointmentMongoRepository) FindAll(ctx context.Context, filter contracts.AppointmentFilter) ([]models.Appointment, int64, error) {
	page, pageSize := normalizePageWindow(filter.Page, filter.PageSize)

	match := bson.M{}
	if filter.Status != nil {
		match["status"] = *filter.Status
	}

	total, err := r.Appointments.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBCountDocuments(err)
	}

	// _id as tiebreak keeps the ordering stable so page boundaries do not
	// skip or duplicate records under concurrent reads.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$skip", Value: int64(page-1) * int64(pageSize)}},
		bson.D{{Key: "$limit", Value: int64(pageSize)}},
		participantLookupStage(),
	}

	cursor, err := r.Appointments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var records []appointmentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}

	appointments := make([]models.Appointment, 0, len(records))
	for i := range records {
		appointments = append(appointments, *records[i].toModel())
	}

	return appointments, total, nil
}

func (r *AppointmentMongoRepository) Update(ctx context.Context, appointmentID string, update contracts.AppointmentUpdate) (*models.Appointment, error) {
	now := time.Now().UTC()
	notFound := false

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var existing models.Appointment
		err := r.Appointments.FindOne(sc, bson.M{"_id": appointmentID}).Decode(&existing)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				notFound = true
				return nil
			}
			return exceptions.ErrMongoDBFindDocument(err)
		}

		set := bson.M{
			"meta.versionId":   bumpVersionID(existing.Meta.VersionID),
			"meta.lastUpdated": now,
			"updatedAt":        now,
		}
		applyHeaderChanges(set, update)

		if _, err := r.Appointments.UpdateOne(sc, bson.M{"_id": appointmentID}, bson.M{"$set": set}); err != nil {
			return exceptions.ErrMongoDBUpdateDocument(err)
		}

		if update.Participants != nil {
			if _, err := r.Participants.DeleteMany(sc, bson.M{"appointmentId": appointmentID}); err != nil {
				return exceptions.ErrMongoDBDeleteDocument(err)
			}
			rows := buildParticipantRows(appointmentID, update.Participants, now)
			if len(rows) > 0 {
				if _, err := r.Participants.InsertMany(sc, participantInsertDocs(rows)); err != nil {
					return exceptions.ErrMongoDBInsertDocument(err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}

	return r.FindByID(ctx, appointmentID)
}

func (r *AppointmentMongoRepository) Delete(ctx context.Context, appointmentID string) (bool, error) {
	existed := false

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		result, err := r.Appointments.DeleteOne(sc, bson.M{"_id": appointmentID})
		if err != nil {
			return exceptions.ErrMongoDBDeleteDocument(err)
		}
		existed = result.DeletedCount > 0

		if _, err := r.Participants.DeleteMany(sc, bson.M{"appointmentId": appointmentID}); err != nil {
			return exceptions.ErrMongoDBDeleteDocument(err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	return existed, nil
}

func (r *AppointmentMongoRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.Appointments.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, exceptions.ErrMongoDBCountDocuments(err)
	}
	return count, nil
}
