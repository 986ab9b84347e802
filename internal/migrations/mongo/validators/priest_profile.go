package validators

import "go.mongodb.org/mongo-driver/bson"

var PriestProfileValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"experience",
			"religious_tradition",
			"ceremonies",
			"price_list",
			"verified",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"experience": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  80,
			},

			"religious_tradition": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"ceremonies": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 2,
					"maxLength": 100,
				},
			},

			"price_list": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "long",
					"minimum":  1,
				},
			},

			"availability": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": []string{"start_time", "end_time"},
						"properties": bson.M{
							"start_time": bson.M{
								"bsonType": "string",
								"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
							},
							"end_time": bson.M{
								"bsonType": "string",
								"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
							},
						},
					},
				},
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"government_id_verified": bson.M{
				"bsonType": "bool",
			},

			"certification_verified": bson.M{
				"bsonType": "bool",
			},

			"verified": bson.M{
				"bsonType": "bool",
			},

			"ratings": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"average": bson.M{
						"bsonType": "double",
						"minimum":  0,
						"maximum":  5,
					},
					"count": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
				},
			},

			"ceremony_count": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
