package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	rtdb "firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"solarify-backend-go/internal/config"
)

var (
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
	// rtdbClient is the global Realtime Database client, used for the
	// contactMessages stream.
	rtdbClient *rtdb.Client
)

// InitFirebase initializes the Firebase Admin SDK and sets up the Firestore,
// Auth and Realtime Database clients from the provided appConfig.
func InitFirebase(ctx context.Context, appConfig *config.Config) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var credsOption option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			log.Printf("Warning: credentials file does not exist: %s", appConfig.GoogleApplicationCredentials)
		}
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)
	default:
		// Application Default Credentials; works on GCP runtimes.
	}

	firebaseAppConfig := &firebase.Config{
		ProjectID:   appConfig.FirebaseProjectID,
		DatabaseURL: appConfig.FirebaseDatabaseURL,
	}

	var (
		app *firebase.App
		err error
	)
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}
	fsClient = client

	authCl, err := app.Auth(ctx)
	if err != nil {
		if fsClient != nil {
			fsClient.Close()
		}
		return fmt.Errorf("app.Auth: %w", err)
	}
	fbAuthClient = authCl

	dbCl, err := app.Database(ctx)
	if err != nil {
		if fsClient != nil {
			fsClient.Close()
		}
		return fmt.Errorf("app.Database: %w", err)
	}
	rtdbClient = dbCl

	return nil
}

// GetFirestoreClient returns the global Firestore client.
// Callers should check for nil, implying InitFirebase hasn't run or failed.
func GetFirestoreClient() *firestore.Client {
	if fsClient == nil {
		log.Println("Warning: GetFirestoreClient called before InitFirebase or InitFirebase failed.")
	}
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client.
func GetFirebaseAuthClient() *auth.Client {
	if fbAuthClient == nil {
		log.Println("Warning: GetFirebaseAuthClient called before InitFirebase or InitFirebase failed.")
	}
	return fbAuthClient
}

// GetRealtimeDBClient returns the global Realtime Database client.
func GetRealtimeDBClient() *rtdb.Client {
	if rtdbClient == nil {
		log.Println("Warning: GetRealtimeDBClient called before InitFirebase or InitFirebase failed.")
	}
	return rtdbClient
}
