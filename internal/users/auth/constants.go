// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// VerificationTokenHours is how long an email verification link stays valid.
	VerificationTokenHours = 24

	// ResetTokenHours is how long a password reset link stays valid.
	ResetTokenHours = 1

	// MinPasswordLength applies to sign-up and password reset.
	MinPasswordLength = 6

	// ConstraintProfileEmail is the unique index on users.profile(email).
	ConstraintProfileEmail = "uq_profile_email"
)

// # Client Messages

const (
	MsgEmailRegistered     = "Email already registered"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgInvalidResetToken   = "Invalid or expired reset token"
	MsgInvalidVerifyToken  = "Invalid or expired verification token"
	MsgUserNotFound        = "User not found"
	MsgAlreadyVerified     = "Email already verified"
	MsgVerificationFailed  = "Failed to send verification email"
	MsgSignUpSucceeded     = "Sign up successful! Please check your email to verify your account."
	MsgSignInSucceeded     = "Sign in successful"
	MsgSignOutSucceeded    = "Sign out successful"
	MsgRefreshSucceeded    = "Token refreshed successfully"
	MsgResetRequested      = "If that email exists, a password reset link has been sent."
	MsgPasswordUpdated     = "Password updated successfully"
	MsgEmailVerified       = "Email verified successfully"
	MsgVerificationResent  = "Verification email sent successfully"
)
