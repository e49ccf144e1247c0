package validators

import "go.mongodb.org/mongo-driver/bson"

// TableBookingValidator guards the per-date slot ledger. booked_slots may run
// past slot 9: a span starting near closing spills over, and the overflow
// numbers must be stored so overlap checks stay symmetric.
var TableBookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"table_number",
			"date",
			"booked_slots",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"table_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  22,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"booked_slots": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "int",
					"minimum":  1,
					"maximum":  11,
				},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
