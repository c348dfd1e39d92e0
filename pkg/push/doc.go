// Package push delivers mobile push notifications.
//
// A Provider sends one Message to one device token. Two providers are
// available: ExpoClient for Expo push tokens and SNSClient for AWS SNS
// platform endpoints. Tokens come from a TokenRegistry; a missing token is an
// empty string, not an error.
//
//	provider, err := push.NewProvider(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	token, err := registry.GetUserPushToken(ctx, userID)
//	if err != nil || token == "" {
//	    return
//	}
//	id, err := provider.Send(ctx, push.Message{
//	    To:       token,
//	    Title:    "Appointment booked",
//	    Body:     "Your Haircut at Glow Salon is booked for 2024-05-01 at 10:00.",
//	    Priority: push.PriorityHigh,
//	})
package push
