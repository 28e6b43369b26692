package util

const (
	SOMETHING_WENT_WRONG = "Something went wrong"
	INVALID_REQUEST_BODY = "Invalid request body"
	INVALID_ID           = "Invalid id"

	INVALID_ADMIN_CREDENTIALS = "Invalid admin credentials"
	INVALID_CREDENTIALS       = "Invalid credentials"
	NOT_AUTHORIZED            = "Not Authorized. Login Again"
	ACCESS_DENIED             = "You do not have access to this resource"

	NAME_EMAIL_PASSWORD_REQUIRED = "Name, email, and password are required."
	PASSWORD_TOO_SHORT           = "Password must be at least 8 characters."
	INVALID_EMAIL                = "Please enter a valid email."
	DOCTOR_EMAIL_EXISTS          = "A doctor with this email already exists."
	VERIFIED_DOCTOR_EXISTS       = "Doctor with this email already exists."
	USER_EMAIL_EXISTS            = "A user with this email already exists."

	SIGNUP_NOT_INITIATED   = "Signup process not initiated for this email."
	EMAIL_ALREADY_VERIFIED = "This email is already verified."
	OTP_EXPIRED            = "OTP has expired. Please try signing up again."
	INVALID_OTP            = "Invalid OTP."
	EMAIL_NOT_VERIFIED     = "Please verify your email before logging in."
	FAILED_TO_SEND_OTP     = "Error sending OTP."

	DOCTOR_NOT_FOUND       = "Doctor not found."
	USER_NOT_FOUND         = "User not found."
	CONSULTATION_NOT_FOUND = "Chat session not found or access denied."
	DOCTOR_UNAVAILABLE     = "Doctor is not available for consultations."
	DOCTOR_NOT_VERIFIED    = "Doctor has not completed verification."
	EMPTY_MESSAGE          = "Reply cannot be empty."
	EMPTY_CHAT_MESSAGE     = "Message cannot be empty."

	INVALID_PERCENTAGE     = "Payout interest percentage must be between 0 and 100."
	INVALID_PAYOUT_DATE    = "Payout date must be a date (YYYY-MM-DD)."
	INVALID_PAYMENT        = "Payment verification failed."
	PAYMENT_ALREADY_DONE   = "Consultation is already paid."
	PAYMENT_ORDER_FAILED   = "Unable to create payment order."
	CONSULTATION_NOT_PAID  = "Consultation has not been paid."
	PAYOUT_ALREADY_DONE    = "Payout already processed for this consultation."
	PAYOUT_DOCTOR_MISMATCH = "Consultation does not belong to this doctor."
	PAYOUT_ACCOUNT_MISSING = "Doctor has no Razorpay account configured for payouts."
	PAYOUT_FAILED          = "Payout failed."
	PAYOUT_AMOUNT_ZERO     = "Nothing to pay out after the platform deduction."
	NO_PAYMENTS_THIS_MONTH = "No payment data available for this month"

	IMAGE_REQUIRED      = "Image file is required."
	IMAGE_UPLOAD_FAILED = "Image upload failed."
	IMAGE_DELETE_FAILED = "Record removed but the profile image could not be deleted."

	CHAT_MESSAGE_REQUIRED = "Message is required."
	CHAT_PROVIDER_FAILED  = "Error from the assistant provider."

	OTP_SENT             = "OTP sent to your email."
	EMAIL_VERIFIED       = "Email verified successfully."
	DOCTOR_ADDED         = "Doctor added successfully."
	DOCTOR_DELETED       = "Doctor deleted successfully."
	USER_DELETED         = "User deleted successfully."
	USER_BLOCKED         = "User blocked."
	USER_UNBLOCKED       = "User unblocked."
	PROFILE_UPDATED      = "Profile updated successfully."
	IMAGE_UPDATED        = "Image updated successfully."
	AVAILABILITY_CHANGED = "Availability changed."
	SETTINGS_UPDATED     = "Settings updated successfully."
	PAYMENT_VERIFIED     = "Payment verified."
	MESSAGE_SENT         = "Message sent."
	PAYOUT_PROCESSED     = "Payout processed successfully."
	CONSULTATION_CREATED = "Consultation created."
)
