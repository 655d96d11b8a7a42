// Package proxy exposes a generic document endpoint translating
// {collection, filter, document, update} requests into Mongo driver calls.
// It is stateless and carries no business logic; it only exists when Mongo
// is the configured backend.
package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventhorizon/utils"
)

type Handler struct {
	DB *mongo.Database
}

func NewHandler(db *mongo.Database) *Handler {
	return &Handler{DB: db}
}

type request struct {
	Collection string `json:"collection"`
	Filter     bson.M `json:"filter"`
	Document   bson.M `json:"document"`
	Update     bson.M `json:"update"`
	Limit      *int64 `json:"limit"`
	Projection bson.M `json:"projection"`
	Sort       bson.M `json:"sort"`
}

// Action dispatches POST /api/action/:action to the matching driver call.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if h.DB == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Document proxy requires a configured Mongo backend")
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Collection == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing collection")
		return
	}
	if req.Filter == nil {
		req.Filter = bson.M{}
	}

	ctx := r.Context()
	coll := h.DB.Collection(req.Collection)
	action := ps.ByName("action")

	switch action {
	case "find":
		opts := options.Find()
		if req.Limit != nil {
			opts.SetLimit(*req.Limit)
		}
		if req.Projection != nil {
			opts.SetProjection(req.Projection)
		}
		if req.Sort != nil {
			opts.SetSort(req.Sort)
		}
		cur, err := coll.Find(ctx, req.Filter, opts)
		if err != nil {
			respondDriverError(w, err)
			return
		}
		defer cur.Close(ctx)
		docs := []bson.M{}
		if err := cur.All(ctx, &docs); err != nil {
			respondDriverError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"documents": docs})

	case "findOne":
		opts := options.FindOne()
		if req.Projection != nil {
			opts.SetProjection(req.Projection)
		}
		var doc bson.M
		err := coll.FindOne(ctx, req.Filter, opts).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"document": nil})
			return
		}
		if err != nil {
			respondDriverError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"document": doc})

	case "insertOne":
		if req.Document == nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Missing document")
			return
		}
		res, err := coll.InsertOne(ctx, req.Document)
		if err != nil {
			respondDriverError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"insertedId": res.InsertedID})

	case "updateOne":
		if req.Update == nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Missing update")
			return
		}
		res, err := coll.UpdateOne(ctx, req.Filter, req.Update)
		if err != nil {
			respondDriverError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, res)

	case "deleteOne":
		res, err := coll.DeleteOne(ctx, req.Filter)
		if err != nil {
			respondDriverError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, res)

	case "deleteMany":
		res, err := coll.DeleteMany(ctx, req.Filter)
		if err != nil {
			respondDriverError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, res)

	default:
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"error": "Unknown action: " + action})
	}
}

func respondDriverError(w http.ResponseWriter, err error) {
	utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{
		"error":   "Database operation failed",
		"details": err.Error(),
	})
}
