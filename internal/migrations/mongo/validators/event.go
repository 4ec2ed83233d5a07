package validators

import "go.mongodb.org/mongo-driver/bson"

var nonEmptyString = bson.M{"bsonType": "string", "minLength": 1}

var nonEmptyStringList = bson.M{
	"bsonType": "array",
	"minItems": 1,
	"items":    bson.M{"bsonType": "string"},
}

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"slug",
			"description",
			"overview",
			"image",
			"venue",
			"location",
			"date",
			"time",
			"mode",
			"audience",
			"agenda",
			"organizer",
			"tags",
			"createdAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"title":       nonEmptyString,
			"slug":        bson.M{"bsonType": "string", "pattern": `^[a-z0-9]+(-[a-z0-9]+)*$`},
			"description": nonEmptyString,
			"overview":    nonEmptyString,
			"image":       nonEmptyString,
			"venue":       nonEmptyString,
			"location":    nonEmptyString,
			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`,
			},
			"time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},
			"mode":      nonEmptyString,
			"audience":  nonEmptyString,
			"agenda":    nonEmptyStringList,
			"organizer": nonEmptyString,
			"tags":      nonEmptyStringList,
			"createdAt": bson.M{"bsonType": "date"},
			"updatedAt": bson.M{"bsonType": "date"},
		},
	},
}
