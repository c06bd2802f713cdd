package orders

import (
	"net/http"

	"eventra/db"
	"eventra/models"
	"eventra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/orders: the caller's orders, newest first.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	skip, limit := utils.ParsePagination(r, 20, 100)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := db.OrdersCollection.Find(r.Context(), bson.M{"userid": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cur.Close(r.Context())

	list := []models.Order{}
	if err := cur.All(r.Context(), &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orders": list})
}

// GET /api/orders/:orderid
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderid")
	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	if err := db.OrdersCollection.FindOne(r.Context(), bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GET /api/events/:eventid/registration: is the viewer registered?
func RegistrationStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	userID := utils.GetUserIDFromRequest(r)
	email := utils.GetEmailFromRequest(r)

	registered, err := IsRegistered(r.Context(), eventID, userID, email)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration lookup failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"registered": registered})
}
