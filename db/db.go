package db

import (
	"github.com/jsphweid/harp/constants"
	"github.com/jsphweid/harp/model"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// DynamoDB limits
const maxBatchGet = 100
const maxBatchWrite = 25

func newClient() (*dynamodb.DynamoDB, error) {
	endpoint := constants.GetDynamoEndpoint()
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Could not create a new DynamoDB session")
	}
	return dynamodb.New(session), nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v.S != nil {
		return *v.S
	}
	return ""
}

func toItem(path string, m model.ChartMetadata) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(path)},
	}
	// empty strings can't be stored as attribute values
	for name, value := range map[string]string{
		"Title":     m.Title,
		"Artist":    m.Artist,
		"Genre":     m.Genre,
		"PlayLevel": m.PlayLevel,
	} {
		if value != "" {
			item[name] = &dynamodb.AttributeValue{S: aws.String(value)}
		}
	}
	return item
}

func fromItem(item map[string]*dynamodb.AttributeValue) (string, model.ChartMetadata) {
	return stringAttr(item, "PK"), model.ChartMetadata{
		Title:     stringAttr(item, "Title"),
		Artist:    stringAttr(item, "Artist"),
		Genre:     stringAttr(item, "Genre"),
		PlayLevel: stringAttr(item, "PlayLevel"),
	}
}

func GetChartMetadatas(paths []string) (map[string]model.ChartMetadata, error) {
	if len(paths) > maxBatchGet {
		return nil, errors.Errorf("Not supposed to pass in more than %v paths!", maxBatchGet)
	}

	res := make(map[string]model.ChartMetadata)
	if len(paths) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, path := range paths {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(path)},
		})
	}

	client, err := newClient()
	if err != nil {
		return nil, err
	}
	table := constants.GetMetadataTable()
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			table: {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		return nil, errors.Wrap(err, "Error from DynamoDB")
	}

	for _, v := range dbres.Responses[table] {
		path, m := fromItem(v)
		res[path] = m
	}
	return res, nil
}

func PutChartMetadatas(metadatas map[string]model.ChartMetadata) error {
	if len(metadatas) == 0 {
		return nil
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	table := constants.GetMetadataTable()

	var requests []*dynamodb.WriteRequest
	flush := func() error {
		if len(requests) == 0 {
			return nil
		}
		_, err := client.BatchWriteItem(&dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]*dynamodb.WriteRequest{table: requests},
		})
		requests = nil
		return errors.Wrap(err, "Error from DynamoDB")
	}

	for path, m := range metadatas {
		requests = append(requests, &dynamodb.WriteRequest{
			PutRequest: &dynamodb.PutRequest{Item: toItem(path, m)},
		})
		if len(requests) == maxBatchWrite {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
