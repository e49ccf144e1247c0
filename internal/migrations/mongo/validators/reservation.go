package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"date",
			"slot",
			"guests",
			"status",
			"contact_phone",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"slot": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  9,
			},

			"guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  20,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"seated",
					"completed",
					"cancelled",
					"no-show",
				},
			},

			"table_numbers": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "int",
					"minimum":  1,
					"maximum":  22,
				},
			},

			"contact_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{7,14}$`,
			},

			"contact_email": bson.M{
				"bsonType": "string",
			},

			"special_request": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
