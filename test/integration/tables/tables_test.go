package integrationtests

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"tablebook/pkg/model"
	"tablebook/pkg/slot"
	"tablebook/test/integration/testutil"
)

func seedTables(t *testing.T, mongo *testutil.MongoHelper, tables ...model.Table) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll := mongo.GetCollection(testutil.TablesCollection)
	for _, table := range tables {
		table.CreatedAt = time.Now().UTC()
		if _, err := coll.InsertOne(ctx, table); err != nil {
			t.Fatalf("failed to seed table %d: %v", table.TableNumber, err)
		}
	}
}

func seedLedgerRow(t *testing.T, mongo *testutil.MongoHelper, tableNumber int, date time.Time, slots []int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll := mongo.GetCollection(testutil.TableBookingsCollection)
	_, err := coll.InsertOne(ctx, model.TableBooking{
		TableNumber: tableNumber,
		Date:        date,
		BookedSlots: slots,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to seed ledger row: %v", err)
	}
}

func TestSlotGrid(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.GET(t, "/api/v1/slots")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var entries []slot.Entry
	resp.UnmarshalData(t, &entries)

	if len(entries) != 9 {
		t.Fatalf("slot grid has %d entries, want 9", len(entries))
	}
	if entries[0].Label != "18:00" || entries[8].Label != "22:00" {
		t.Errorf("grid boundaries = %s..%s, want 18:00..22:00", entries[0].Label, entries[8].Label)
	}
}

func TestAvailabilityScan(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	tables := make([]model.Table, 0, 12)
	for n := 1; n <= 12; n++ {
		tables = append(tables, testutil.NewTableBuilder().WithNumber(n).Build())
	}
	seedTables(t, mongo, tables...)

	date := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	seedLedgerRow(t, mongo, 3, date, []int{5, 6, 7})

	resp := client.GET(t, fmt.Sprintf("/api/v1/availability?date=%s&slot=5", date.Format("2006-01-02")))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var scan model.AvailabilityScan
	resp.UnmarshalData(t, &scan)

	if len(scan.OccupiedTables) != 1 || scan.OccupiedTables[0] != 3 {
		t.Errorf("occupied = %v, want [3]", scan.OccupiedTables)
	}
	if len(scan.AvailableTables) != 11 {
		t.Errorf("available = %v, want the 11 other tables", scan.AvailableTables)
	}
}

func TestDailyAvailabilityReport(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seedTables(t, mongo,
		testutil.NewTableBuilder().WithNumber(1).Build(),
		testutil.NewTableBuilder().WithNumber(2).WithCapacity(8).Build(),
		testutil.NewTableBuilder().WithNumber(3).Inactive().Build(),
	)

	date := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	seedLedgerRow(t, mongo, 1, date, []int{5, 6, 7})

	resp := client.GET(t, fmt.Sprintf("/api/v1/availability/report?date=%s", date.Format("2006-01-02")))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var report []model.TableDayReport
	resp.UnmarshalData(t, &report)

	// Inactive table 3 must not appear.
	if len(report) != 2 {
		t.Fatalf("report lines = %d, want 2", len(report))
	}
	if report[0].TableNumber != 1 || len(report[0].BookedSlots) != 3 {
		t.Errorf("line 1 = %+v, want table 1 with span 5,6,7 booked", report[0])
	}
	if report[1].TableNumber != 2 || len(report[1].AvailableSlots) != 9 {
		t.Errorf("line 2 = %+v, want table 2 fully free", report[1])
	}
}

func TestUnknownSlotRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.GET(t, "/api/v1/availability?date=2027-06-01&slot=10")
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	testutil.AssertContains(t, resp, "unknown time slot")
}
