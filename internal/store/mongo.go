package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

var _ Store = (*Mongo)(nil)

// Mongo stores each ledger in its own collection, keyed by the entity id.
type Mongo struct {
	db           *mongo.Database
	appointments *mongo.Collection
	expenses     *mongo.Collection
	labWorks     *mongo.Collection
	users        *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		db:           db,
		appointments: db.Collection("appointments"),
		expenses:     db.Collection("expenses"),
		labWorks:     db.Collection("labworks"),
		users:        db.Collection("users"),
	}
}

// EnsureIndexes creates the unique email index and the dateTime index.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	_, err = s.appointments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "dateTime", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("appointments dateTime index: %w", err)
	}
	return nil
}

func (s *Mongo) Appointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	filter := bson.M{}
	if !f.From.IsZero() || !f.To.IsZero() {
		rng := bson.M{}
		if !f.From.IsZero() {
			rng["$gte"] = f.From
		}
		if !f.To.IsZero() {
			rng["$lte"] = f.To
		}
		filter["dateTime"] = rng
	}
	if f.Paid != nil {
		filter["isPaid"] = *f.Paid
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "dateTime", Value: 1}})
	cursor, err := s.appointments.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appointments, nil
}

func (s *Mongo) Appointment(ctx context.Context, id string) (models.Appointment, error) {
	var apt models.Appointment
	err := s.appointments.FindOne(ctx, bson.M{"_id": id}).Decode(&apt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Appointment{}, fmt.Errorf("find appointment %s: %w", id, err)
	}
	return apt, nil
}

func (s *Mongo) SaveAppointment(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if isNew(a.ID) {
		a.ID = newID()
		if _, err := s.appointments.InsertOne(ctx, a); err != nil {
			return models.Appointment{}, fmt.Errorf("insert appointment: %w", err)
		}
		return a, nil
	}
	res, err := s.appointments.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("replace appointment %s: %w", a.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.Appointment{}, fmt.Errorf("appointment %s: %w", a.ID, ErrNotFound)
	}
	return a, nil
}

func (s *Mongo) AddAppointments(ctx context.Context, appts []models.Appointment) error {
	if len(appts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(appts))
	for _, a := range appts {
		if isNew(a.ID) {
			return fmt.Errorf("appointment for %q has no id", a.PatientName)
		}
		docs = append(docs, a)
	}
	if _, err := s.appointments.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert appointments: %w", ErrDuplicate)
		}
		return fmt.Errorf("insert appointments: %w", err)
	}
	return nil
}

func (s *Mongo) Expenses(ctx context.Context) ([]models.Expense, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.expenses.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	defer cursor.Close(ctx)

	expenses := make([]models.Expense, 0)
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return expenses, nil
}

func (s *Mongo) SaveExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	if isNew(e.ID) {
		e.ID = newID()
		if _, err := s.expenses.InsertOne(ctx, e); err != nil {
			return models.Expense{}, fmt.Errorf("insert expense: %w", err)
		}
		return e, nil
	}
	res, err := s.expenses.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return models.Expense{}, fmt.Errorf("replace expense %s: %w", e.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.Expense{}, fmt.Errorf("expense %s: %w", e.ID, ErrNotFound)
	}
	return e, nil
}

func (s *Mongo) LabWorks(ctx context.Context) ([]models.LabWork, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "dateSent", Value: 1}})
	cursor, err := s.labWorks.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find lab works: %w", err)
	}
	defer cursor.Close(ctx)

	labWorks := make([]models.LabWork, 0)
	if err := cursor.All(ctx, &labWorks); err != nil {
		return nil, fmt.Errorf("decode lab works: %w", err)
	}
	return labWorks, nil
}

func (s *Mongo) SaveLabWork(ctx context.Context, l models.LabWork) (models.LabWork, error) {
	if isNew(l.ID) {
		l.ID = newID()
		if _, err := s.labWorks.InsertOne(ctx, l); err != nil {
			return models.LabWork{}, fmt.Errorf("insert lab work: %w", err)
		}
		return l, nil
	}
	res, err := s.labWorks.ReplaceOne(ctx, bson.M{"_id": l.ID}, l)
	if err != nil {
		return models.LabWork{}, fmt.Errorf("replace lab work %s: %w", l.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.LabWork{}, fmt.Errorf("lab work %s: %w", l.ID, ErrNotFound)
	}
	return l, nil
}

func (s *Mongo) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if isNew(u.ID) {
		u.ID = newID()
	}
	u.Email = strings.ToLower(u.Email)
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Mongo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, bson.M{"email": strings.ToLower(email)}, email)
}

func (s *Mongo) UserByID(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id}, id)
}

func (s *Mongo) findUser(ctx context.Context, filter bson.M, key string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("user %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user %s: %w", key, err)
	}
	return user, nil
}

func (s *Mongo) UpdateUserName(ctx context.Context, id, fullName string) error {
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fullName": fullName}})
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Mongo) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Mongo) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}
