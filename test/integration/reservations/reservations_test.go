package integrationtests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tablebook/pkg/middleware"
	"tablebook/pkg/model"
	"tablebook/test/integration/testutil"
)

func seedTables(t *testing.T, mongo *testutil.MongoHelper, numbers ...int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll := mongo.GetCollection(testutil.TablesCollection)
	for _, n := range numbers {
		table := testutil.NewTableBuilder().WithNumber(n).Build()
		table.CreatedAt = time.Now().UTC()
		if _, err := coll.InsertOne(ctx, table); err != nil {
			t.Fatalf("failed to seed table %d: %v", n, err)
		}
	}
}

func TestReservationLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	guestToken := testutil.MintToken(t, "guest-1", middleware.RoleGuest)
	adminToken := testutil.MintToken(t, "staff-1", middleware.RoleAdmin)

	seedTables(t, mongo, 3, 4)

	payload := testutil.NewReservationBuilder().
		WithUser("guest-1").
		WithSlot(5).
		WithTables(3, 4).
		Build()

	resp := client.WithHeaders(t, http.MethodPost, "/api/v1/reservations", payload, testutil.AuthHeader(guestToken))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Reservation
	resp.UnmarshalData(t, &created)
	if created.ID == "" {
		t.Fatal("created reservation has no ID")
	}
	if created.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", created.Status)
	}

	// Both tables got a ledger row holding the 3-slot span.
	if n := mongo.CountDocuments(t, testutil.TableBookingsCollection); n != 2 {
		t.Fatalf("ledger rows = %d, want 2", n)
	}

	path := "/api/v1/reservations/" + created.ID

	// Only staff may confirm.
	confirm := map[string]string{"status": model.StatusConfirmed}
	resp = client.WithHeaders(t, http.MethodPatch, "/api/v1/admin/reservations/"+created.ID, confirm, testutil.AuthHeader(guestToken))
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	resp = client.WithHeaders(t, http.MethodPatch, "/api/v1/admin/reservations/"+created.ID, confirm, testutil.AuthHeader(adminToken))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// The guest moves the reservation one slot earlier; the ledger follows.
	newSlot := 4
	move := model.ReservationUpdate{Slot: &newSlot}
	resp = client.WithHeaders(t, http.MethodPut, path, move, testutil.AuthHeader(guestToken))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var moved model.Reservation
	resp.UnmarshalData(t, &moved)
	if moved.Slot != 4 {
		t.Errorf("slot after move = %d, want 4", moved.Slot)
	}

	// Cancelling releases every table and prunes the empty ledger rows.
	resp = client.WithHeaders(t, http.MethodDelete, path, nil, testutil.AuthHeader(guestToken))
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	if n := mongo.CountDocuments(t, testutil.TableBookingsCollection); n != 0 {
		t.Errorf("ledger rows after cancel = %d, want 0", n)
	}
}

func TestReservationRequiresAuth(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	payload := testutil.NewReservationBuilder().Build()
	resp := client.POST(t, "/api/v1/reservations", payload)
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestOverlappingReservationLeavesLedgerIntact(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	token := testutil.MintToken(t, "guest-1", middleware.RoleGuest)
	seedTables(t, mongo, 7)

	date := time.Now().UTC().AddDate(0, 0, 7)
	first := testutil.NewReservationBuilder().WithDate(date).WithSlot(5).WithTables(7).Build()
	resp := client.WithHeaders(t, http.MethodPost, "/api/v1/reservations", first, testutil.AuthHeader(token))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	// An overlapping span on the same table is refused at the ledger, but
	// table assignment is best-effort so the reservation itself is stored.
	second := testutil.NewReservationBuilder().WithDate(date).WithSlot(6).WithTables(7).Build()
	resp = client.WithHeaders(t, http.MethodPost, "/api/v1/reservations", second, testutil.AuthHeader(token))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	if n := mongo.CountDocuments(t, testutil.TableBookingsCollection); n != 1 {
		t.Fatalf("ledger rows = %d, want 1", n)
	}

	resp = client.WithHeaders(t, http.MethodGet, "/api/v1/reservations?limit=10&offset=0", nil, testutil.AuthHeader(token))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, "guest-1")
}
