package main

import (
	"context"

	"glutenscope-proxy/internal/config"
	"glutenscope-proxy/pkg/lambda"
	"glutenscope-proxy/pkg/server"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var container *server.Container

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	sc := config.GetServerlessConfig()
	container.Logger.WithFields(logrus.Fields{
		"function": sc.FunctionName,
		"region":   sc.Region,
		"stage":    sc.Stage,
	}).Info("Lambda container initialized")
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := lambda.FromAPIGateway(event)
	if err != nil {
		container.Logger.WithError(err).Warn("Failed to decode API Gateway body")
		req = &lambda.Request{Method: event.HTTPMethod, Path: event.Path, RequestID: event.RequestContext.RequestID}
	}
	if container.Config.MaxBodyBytes > 0 && int64(len(req.Body)) > container.Config.MaxBodyBytes {
		req.BodyTooLarge = true
	}

	return lambda.ToAPIGateway(container.ProxyHandler.Handle(ctx, req)), nil
}

func main() {
	awslambda.Start(handler)
}
