// Package reviews provides a typed client for the product reviews REST API.
//
// The client builds authenticated JSON requests, checks required fields before
// anything is sent, and maps every failure to a single *Error type carrying a
// stable Code.
//
// # Usage
//
//	client, err := reviews.NewClient(reviews.Config{
//		APIKey:  "your-api-key",
//		BaseURL: "https://reviews.example.com",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	resp, err := client.GetByProduct(ctx, "prod-1", reviews.Filters{Rating: 5})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Write intents
//
// Every write body carries an "intent" field (create, update, delete or
// approve) which the service uses to tell writes apart on shared endpoints.
//
// # Error Handling
//
// All errors are *Error values. Branch on the code:
//
//	if errors.Is(err, reviews.ErrNotFound) {
//		// Handle missing review
//	}
//	if reviews.IsCode(err, reviews.CodeTimeout) {
//		// The service may or may not have applied the call
//	}
//
// Input problems are reported as CodeValidation before any network call is
// made. The client never retries.
package reviews
