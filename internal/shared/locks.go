package shared

import "fmt"

// HandoverLockID keys the pg advisory lock that serializes handover
// transactions against each other.
const HandoverLockID int64 = 727272001

// OTPThrottleKey builds redis keys for OTP resend throttling.
func OTPThrottleKey(email string) string {
	return fmt.Sprintf("otp:%s:throttle", email)
}
