package validators

import "go.mongodb.org/mongo-driver/bson"

var RatingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"priest_id",
			"devotee_id",
			"overall",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"priest_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"devotee_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"overall": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  5,
			},

			"categories": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "int",
					"minimum":  1,
					"maximum":  5,
				},
			},

			"review": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
