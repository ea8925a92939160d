package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aarushkx/speak-free/internal/domain"
)

// CollectionFunc resolves the users collection, connecting lazily if needed.
type CollectionFunc func(ctx context.Context) (*mongo.Collection, error)

type userDocument struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	Username               string             `bson:"username"`
	Email                  string             `bson:"email"`
	Password               string             `bson:"password"`
	VerificationCode       string             `bson:"verificationCode"`
	VerificationCodeExpiry time.Time          `bson:"verificationCodeExpiry"`
	IsVerified             bool               `bson:"isVerified"`
	IsAcceptingMessages    bool               `bson:"isAcceptingMessages"`
	Messages               []messageDocument  `bson:"messages"`
	CreatedAt              time.Time          `bson:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt"`
}

type messageDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// preferVerifiedNewest orders lookups that may hit a stale pending record.
var preferVerifiedNewest = bson.D{{Key: "isVerified", Value: -1}, {Key: "createdAt", Value: -1}}

type mongoUserRepository struct {
	users CollectionFunc
}

// NewMongoUserRepository returns a MongoDB-backed implementation.
func NewMongoUserRepository(users CollectionFunc) UserRepository {
	return &mongoUserRepository{users: users}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	doc := toUserDocument(user)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Messages == nil {
		doc.Messages = []messageDocument{}
	}

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, options.FindOne().SetSort(preferVerifiedNewest))
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}}
	return r.findOne(ctx, filter, options.FindOne().SetSort(preferVerifiedNewest))
}

func (r *mongoUserRepository) FindVerifiedByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "isVerified": true})
}

func (r *mongoUserRepository) ResetPendingRegistration(ctx context.Context, id, passwordHash, code string, expiry time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid, "isVerified": false},
		bson.M{"$set": bson.M{
			"password":               passwordHash,
			"verificationCode":       code,
			"verificationCodeExpiry": expiry,
			"updatedAt":              time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) MarkVerified(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isVerified": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) GetAcceptingMessages(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return false, err
	}

	var doc struct {
		IsAcceptingMessages bool `bson:"isAcceptingMessages"`
	}
	opts := options.FindOne().SetProjection(bson.M{"isAcceptingMessages": 1})
	if err := coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrNotFound
		}
		return false, err
	}
	return doc.IsAcceptingMessages, nil
}

func (r *mongoUserRepository) SetAcceptingMessages(ctx context.Context, id string, accept bool) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return false, err
	}

	var doc struct {
		IsAcceptingMessages bool `bson:"isAcceptingMessages"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"isAcceptingMessages": 1})
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isAcceptingMessages": accept, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrNotFound
		}
		return false, err
	}
	return doc.IsAcceptingMessages, nil
}

func (r *mongoUserRepository) AppendMessage(ctx context.Context, userID string, msg *domain.Message) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	doc := messageDocument{ID: primitive.NewObjectID(), Content: msg.Content, CreatedAt: msg.CreatedAt}
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid, "isAcceptingMessages": true},
		bson.M{
			"$push": bson.M{"messages": doc},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missingOr(ctx, coll, oid, ErrNotAccepting)
	}
	msg.ID = doc.ID.Hex()
	return nil
}

func (r *mongoUserRepository) ListMessages(ctx context.Context, userID string) ([]domain.Message, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	opts := options.FindOne().SetProjection(bson.M{"messages": 1})
	if err := coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMessages(doc.Messages), nil
}

func (r *mongoUserRepository) DeleteMessage(ctx context.Context, userID, messageID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}
	mid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return r.missingOr(ctx, coll, oid, ErrMessageNotFound)
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid, "messages._id": mid},
		bson.M{
			"$pull": bson.M{"messages": bson.M{"_id": mid}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missingOr(ctx, coll, oid, ErrMessageNotFound)
	}
	return nil
}

func (r *mongoUserRepository) ClearMessages(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid, "messages.0": bson.M{"$exists": true}},
		bson.M{"$set": bson.M{"messages": bson.A{}, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missingOr(ctx, coll, oid, ErrNoMessages)
	}
	return nil
}

func (r *mongoUserRepository) ListVerified(ctx context.Context) ([]domain.DirectoryEntry, error) {
	coll, err := r.users(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetProjection(bson.M{"username": 1, "isAcceptingMessages": 1, "createdAt": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"isVerified": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]domain.DirectoryEntry, 0)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		entries = append(entries, domain.DirectoryEntry{
			ID:                  doc.ID.Hex(),
			Username:            doc.Username,
			IsAcceptingMessages: doc.IsAcceptingMessages,
			CreatedAt:           doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) Ping(ctx context.Context) error {
	coll, err := r.users(ctx)
	if err != nil {
		return err
	}
	return coll.Database().Client().Ping(ctx, nil)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	coll, err := r.users(ctx)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// missingOr explains a conditional update that matched nothing: either the
// owner is gone, or the condition failed with reason.
func (r *mongoUserRepository) missingOr(ctx context.Context, coll *mongo.Collection, oid primitive.ObjectID, reason error) error {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := coll.FindOne(ctx, bson.M{"_id": oid}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return reason
}

func toUserDocument(u *domain.User) userDocument {
	msgs := make([]messageDocument, 0, len(u.Messages))
	for _, m := range u.Messages {
		mid, err := primitive.ObjectIDFromHex(m.ID)
		if err != nil {
			mid = primitive.NewObjectID()
		}
		msgs = append(msgs, messageDocument{ID: mid, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return userDocument{
		Username:               u.Username,
		Email:                  u.Email,
		Password:               u.PasswordHash,
		VerificationCode:       u.VerificationCode,
		VerificationCodeExpiry: u.VerificationCodeExpiry,
		IsVerified:             u.IsVerified,
		IsAcceptingMessages:    u.IsAcceptingMessages,
		Messages:               msgs,
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                     d.ID.Hex(),
		Username:               d.Username,
		Email:                  d.Email,
		PasswordHash:           d.Password,
		VerificationCode:       d.VerificationCode,
		VerificationCodeExpiry: d.VerificationCodeExpiry,
		IsVerified:             d.IsVerified,
		IsAcceptingMessages:    d.IsAcceptingMessages,
		Messages:               toMessages(d.Messages),
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

func toMessages(docs []messageDocument) []domain.Message {
	out := make([]domain.Message, 0, len(docs))
	for _, m := range docs {
		out = append(out, domain.Message{ID: m.ID.Hex(), Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out
}
