package store

import (
	"context"
	"errors"
	"log"
	"time"

	"Cywala/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Settings:      &mongoSettings{coll: db.Collection(SettingsCollection)},
		Doctors:       &mongoDoctors{coll: db.Collection(DoctorCollection)},
		Users:         &mongoUsers{coll: db.Collection(UserCollection)},
		Consultations: &mongoConsultations{coll: db.Collection(ConsultationCollection)},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}

type mongoSettings struct {
	coll *mongo.Collection
}

/*
* Upsert on the fixed key with $setOnInsert so the first access creates the document
* A concurrent first access can lose the upsert race with a duplicate key, then just read
 */
func (s *mongoSettings) FindOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	filter := bson.M{"_id": models.SettingsKey}
	update := bson.M{"$setOnInsert": bson.M{
		"payoutInterestPercentage": defaults.PayoutInterestPercentage,
		"payoutDate":               defaults.PayoutDate,
		"createdAt":                defaults.CreatedAt,
		"updatedAt":                defaults.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var settings models.Settings
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&settings)
	if mongo.IsDuplicateKeyError(err) {
		log.Println("Settings upsert raced, reading the winner")
		err = s.coll.FindOne(ctx, filter).Decode(&settings)
	}
	if err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

func (s *mongoSettings) Update(ctx context.Context, upd models.SettingsUpdate, now time.Time) (*models.Settings, error) {
	set := bson.M{
		"payoutInterestPercentage": upd.PayoutInterestPercentage,
		"updatedAt":                now,
	}
	if upd.PayoutDate != nil {
		set["payoutDate"] = upd.PayoutDate
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var settings models.Settings
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": models.SettingsKey}, update, opts).Decode(&settings)
	if err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

type mongoDoctors struct {
	coll *mongo.Collection
}

func (s *mongoDoctors) Create(ctx context.Context, doctor *models.Doctor) error {
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, doctor)
	return translate(err)
}

func (s *mongoDoctors) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor); err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

func (s *mongoDoctors) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doctor); err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

func (s *mongoDoctors) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Doctor, error) {
	out := make(map[primitive.ObjectID]*models.Doctor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	for i := range doctors {
		out[doctors[i].ID] = &doctors[i]
	}
	return out, nil
}

func (s *mongoDoctors) List(ctx context.Context, verifiedOnly bool) ([]models.Doctor, error) {
	filter := bson.M{}
	if verifiedOnly {
		filter["isVerified"] = true
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	doctors := []models.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *mongoDoctors) Save(ctx context.Context, doctor *models.Doctor) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doctor.ID}, doctor)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoDoctors) Delete(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doctor); err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

func (s *mongoDoctors) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

type mongoUsers struct {
	coll *mongo.Collection
}

func (s *mongoUsers) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, user)
	return translate(err)
}

func (s *mongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *mongoUsers) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

func (s *mongoUsers) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *mongoUsers) Save(ctx context.Context, user *models.User) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUsers) Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *mongoUsers) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

type mongoConsultations struct {
	coll *mongo.Collection
}

func (s *mongoConsultations) Create(ctx context.Context, consultation *models.Consultation) error {
	if consultation.ID.IsZero() {
		consultation.ID = primitive.NewObjectID()
	}
	if consultation.Messages == nil {
		consultation.Messages = []models.Message{}
	}
	_, err := s.coll.InsertOne(ctx, consultation)
	return translate(err)
}

func (s *mongoConsultations) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	var consultation models.Consultation
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&consultation); err != nil {
		return nil, translate(err)
	}
	return &consultation, nil
}

func (s *mongoConsultations) Save(ctx context.Context, consultation *models.Consultation) error {
	if consultation.Messages == nil {
		consultation.Messages = []models.Message{}
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": consultation.ID}, consultation)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoConsultations) AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message) (*models.Consultation, error) {
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updatedAt": msg.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var consultation models.Consultation
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&consultation); err != nil {
		return nil, translate(err)
	}
	return &consultation, nil
}

func payoutClaimFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "payout": nil}
}

func pendingPayoutFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "payout.status": models.PayoutPending}
}

// conflictOrMissing tells a lost compare-and-set apart from an unknown id.
func (s *mongoConsultations) conflictOrMissing(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (s *mongoConsultations) ClaimPayout(ctx context.Context, id primitive.ObjectID, claim models.PayoutRecord) error {
	claim.Status = models.PayoutPending
	update := bson.M{"$set": bson.M{"payout": claim, "updatedAt": claim.ProcessedAt}}
	res, err := s.coll.UpdateOne(ctx, payoutClaimFilter(id), update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return s.conflictOrMissing(ctx, id)
	}
	return nil
}

func (s *mongoConsultations) CompletePayout(ctx context.Context, id primitive.ObjectID, record models.PayoutRecord) error {
	record.Status = models.PayoutCompleted
	update := bson.M{"$set": bson.M{"payout": record, "updatedAt": record.ProcessedAt}}
	res, err := s.coll.UpdateOne(ctx, pendingPayoutFilter(id), update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return s.conflictOrMissing(ctx, id)
	}
	return nil
}

func (s *mongoConsultations) ReleasePayout(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	update := bson.M{"$unset": bson.M{"payout": ""}, "$set": bson.M{"updatedAt": now}}
	res, err := s.coll.UpdateOne(ctx, pendingPayoutFilter(id), update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return s.conflictOrMissing(ctx, id)
	}
	return nil
}

func (s *mongoConsultations) List(ctx context.Context, f ConsultationFilter) ([]models.Consultation, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortField(f), Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	cursor, err := s.coll.Find(ctx, consultationQuery(f), opts)
	if err != nil {
		return nil, err
	}
	consultations := []models.Consultation{}
	if err := cursor.All(ctx, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

func (s *mongoConsultations) Count(ctx context.Context, f ConsultationFilter) (int64, error) {
	return s.coll.CountDocuments(ctx, consultationQuery(f))
}

func (s *mongoConsultations) RevenueByDoctor(ctx context.Context, start, end time.Time) ([]models.DoctorRevenue, error) {
	cursor, err := s.coll.Aggregate(ctx, revenuePipeline(start, end))
	if err != nil {
		return nil, err
	}
	rows := []models.DoctorRevenue{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func sortField(f ConsultationFilter) string {
	if f.SortBy == SortByUpdated {
		return SortByUpdated
	}
	return SortByCreated
}

func consultationQuery(f ConsultationFilter) bson.M {
	query := bson.M{}
	if f.DoctorID != nil {
		query["doctorId"] = *f.DoctorID
	}
	if f.UserID != nil {
		query["userId"] = *f.UserID
	}
	if f.PaidOnly {
		query["paymentStatus"] = true
	}
	if f.ActiveAt != nil {
		query["expiresAt"] = bson.M{"$gt": *f.ActiveAt}
	}
	return query
}

func revenuePipeline(start, end time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "paymentStatus", Value: true},
			{Key: "createdAt", Value: bson.D{
				{Key: "$gte", Value: start},
				{Key: "$lte", Value: end},
			}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$doctorId"},
			{Key: "totalConsultations", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
}
