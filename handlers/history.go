package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gopoly/gopoly-backend/common"
	"github.com/gopoly/gopoly-backend/models"
	"github.com/gopoly/gopoly-backend/repository"
	"github.com/gopoly/gopoly-backend/responses"
	"github.com/gopoly/gopoly-backend/utils"
)

const historyLimit = 100

// recordAction writes one accepted game action to MongoDB, fire-and-forget.
// Failures are logged and never reach the client; the live room state does
// not depend on these records in any way.
func (g *Gateway) recordAction(c *Connection, room, action, detail string) {
    if repository.MongoDBClient == nil {
        return
    }

    record := models.RoomAction{
        Room:      room,
        PlayerID:  c.playerID,
        AccountID: c.accountID,
        Action:    action,
        Detail:    detail,
        Timestamp: time.Now().UnixMilli(),
    }

    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()

        collection := repository.MongoDBClient.Database("gopoly").Collection("room_actions")
        if _, err := collection.InsertOne(ctx, record); err != nil {
            log.Printf("Failed to insert room action into MongoDB: %v", err)
        }
    }()
}

// RoomHistory returns the most recent recorded actions for a room,
// newest first.
func (g *Gateway) RoomHistory(w http.ResponseWriter, r *http.Request) {
    _, ok := r.Context().Value(common.AuthInfoKey).(*models.CustomClaims)
    if !ok {
        utils.HandleError(w, responses.InternalServerError{Msg: "Error processing request."})
        return
    }

    vars := mux.Vars(r)
    roomName := vars["room"]
    if roomName == "" {
        utils.HandleError(w, responses.BadRequestError{Msg: "room is required."})
        return
    }

    if repository.MongoDBClient == nil {
        utils.HandleError(w, responses.InternalServerError{Msg: "History storage is unavailable."})
        return
    }

    ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
    defer cancel()

    collection := repository.MongoDBClient.Database("gopoly").Collection("room_actions")
    opts := options.Find().
        SetSort(bson.D{{Key: "timestamp", Value: -1}}).
        SetLimit(historyLimit)

    cursor, err := collection.Find(ctx, bson.M{"room": roomName}, opts)
    if err != nil {
        log.Printf("Error fetching room history: %v", err)
        utils.HandleError(w, responses.InternalServerError{Msg: "Error fetching room history."})
        return
    }
    defer cursor.Close(ctx)

    actions := []models.RoomAction{}
    if err := cursor.All(ctx, &actions); err != nil {
        log.Printf("Error decoding room history: %v", err)
        utils.HandleError(w, responses.InternalServerError{Msg: "Error processing room history."})
        return
    }

    utils.HandleSuccess(w, models.SuccessResponse(actions))
}
