package bot

// User guidance text. Every failure names the command to retry with.
const (
	msgWelcome = "👋 Welcome! Send me a file and I'll mirror it back to you.\n\n" +
		"Commands:\n" +
		"/getpremium - watch an ad to earn free downloads\n" +
		"/verify <code> - redeem your verification code"

	msgGetPremium = "🎬 Watch a quick ad to earn %d free downloads!\n\n" +
		"1. Open the link below\n" +
		"2. Complete the steps on the page\n" +
		"3. Send the code back here with /verify <code>\n\n" +
		"The link is valid for 30 minutes."

	msgVerifyUsage = "Usage: /verify <code>\n\nGet a code with /getpremium first."

	msgCodeInvalid = "❌ Invalid verification code.\n\n" +
		"Please make sure you entered the code correctly or get a new one with /getpremium"

	msgCodeForeign = "❌ This verification code belongs to another user."

	msgCodeExpired = "⏰ Verification code has expired.\n\n" +
		"Codes expire after 30 minutes. Please get a new one with /getpremium"

	msgCodeStoreDown = "⚠️ Something went wrong on our side. Please try /verify again in a moment."

	msgVerified = "✅ Verification successful!\n\nYou now have %d free download(s)!"

	msgAdLinkFailed = "⚠️ Couldn't create your ad link right now. Please try /getpremium again in a moment."

	msgMirrorFailed = "⚠️ Couldn't process that file. Please send it again."

	msgStagedReady = "📦 Your file is ready!\n\nThe download link below is valid for 30 minutes."

	btnWatchAd  = "Watch Ad"
	btnDownload = "Download"
)
