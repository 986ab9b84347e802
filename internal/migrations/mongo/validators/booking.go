package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"devotee_id",
			"priest_id",
			"ceremony_type",
			"date",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"base_price",
			"total_amount",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"devotee_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"priest_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"ceremony_type": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"location": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"address": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 200,
					},
					"city": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 50,
					},
				},
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"completed",
					"cancelled",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"completed",
					"refunded",
				},
			},

			"base_price": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"platform_fee": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"total_amount": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"payment_id": bson.M{
				"bsonType": "string",
			},

			"payment_method": bson.M{
				"bsonType": "string",
				"enum":     []string{"upi", "card", "other"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
