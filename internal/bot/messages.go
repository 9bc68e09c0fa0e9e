package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/domain"
)

// Reply texts. The Amharic wording is part of the bot's public behavior and
// is kept stable; do not "fix" it in passing.
const (
	msgDefault = "መልዕክትዎን ተቀብለናል። ✅ አስተዳዳሪው በቅርቡ ምላሽ ይሰጥዎታል።"

	msgPaymentPrompt = "⚠️ ማስታወቂያ ለመለጠፍ ክፍያ መፈጸም ያስፈልጋል።\n" +
		"እባክዎ መጀመሪያ ክፍያውን (ለምሳሌ 100 ብር) ለአድሚኑ ይፈጽሙና አድሚኑ የሰጠዎትን ልዩ የክፍያ ማረጋገጫ ኮድ እዚህ ያስገቡ።\n\n" +
		"ክፍያ ከፈጸሙ በኋላ ኮዱን ያስገቡ:"
	msgPaymentOK = "🎉 እንኳን ደስ አለዎት! የክፍያ ኮዱ ትክክል ነው።\n" +
		"አሁን ማስታወቂያዎን /post_ad የሚለውን ተጭነው ማስገባት ይችላሉ።"
	msgPaymentBad = "❌ ያስገቡት የክፍያ ኮድ ትክክል አይደለም። እባክዎ እንደገና ይሞክሩ።"

	msgFlowOpen  = "⚠️ ያልተጠናቀቀ ሂደት አለዎት። መጀመሪያ /cancel ያድርጉ።"
	msgCancelled = "✅ ሂደቱ ተሰርዟል።"
	msgNoFlow    = "ምንም ክፍት ሂደት የለም።"

	msgAskKind     = "የማስታወቂያ አይነት ይምረጡ: SELL ወይም BUY"
	msgBadKind     = "❌ SELL ወይም BUY ብቻ ያስገቡ።"
	msgAskName     = "🏷️ የግሩፑን ስም ያስገቡ:"
	msgAskMembers  = "👥 የአባላት ብዛት ያስገቡ:"
	msgBadMembers  = "❌ የአባላት ብዛት ቁጥር መሆን አለበት። እባክዎ በትክክል ያስገቡ።"
	msgAskDate     = "⏳ ግሩፑ የተመሠረተበት ቀን ያስገቡ (ምሳሌ: 2020-01-01):"
	msgAskPrice    = "💰 ዋጋ በብር ያስገቡ:"
	msgBadPrice    = "❌ ዋጋ ቁጥር መሆን አለበት። እባክዎ በትክክል ያስገቡ።"
	msgAskContact  = "📞 ለመገናኘት የሚሆን አድራሻ ያስገቡ (ምሳሌ: @username):"
	msgInsertError = "የመመዝገብ ስህተት ተፈጥሯል። እባክዎ ቆይተው እንደገና ይሞክሩ።"

	msgBrowseEmpty = "በአሁኑ ጊዜ ምንም ንቁ ማስታወቂያዎች የሉም።"
	msgBrowseError = "ማስታወቂያዎችን የማውጣት ስህተት ተፈጠረ።"

	msgAdminDenied    = "❌ ይህ ትእዛዝ ለአስተዳዳሪ ብቻ ነው።"
	msgAskAdID        = "የሚሰረዘውን ማስታወቂያ መለያ ቁጥር ያስገቡ:"
	msgBadAdID        = "❌ መለያ ቁጥር መሆን አለበት። እባክዎ እንደገና ያስገቡ:"
	msgAskBroadcast   = "ለሁሉም ተጠቃሚዎች የሚላከውን መልዕክት ያስገቡ:"
	msgStorageFailure = "የዳታቤዝ ስህተት ተፈጠረ። እባክዎ ቆይተው እንደገና ይሞክሩ።"
)

func welcomeMessage(firstName string) string {
	return fmt.Sprintf(
		"ሰላም %s! 👋\n\n"+
			"ወደ P2P የድሮ ግሩፖች ማርኬት እንኳን ደህና መጡ።\n"+
			"የቴሌግራም ግሩፖችን መግዛት ወይም መሸጥ ይችላሉ።\n\n"+
			"ዋና ኮማንዶች:\n"+
			"/post_ad - አዲስ ማስታወቂያ ለመለጠፍ (ክፍያ ይጠይቃል)\n"+
			"/browse_ads - የሚገኙ ማስታወቂያዎችን ለማየት",
		firstName)
}

func listingSavedMessage(l domain.Listing) string {
	return fmt.Sprintf(
		"✅ ማስታወቂያዎ ተመዝግቧል:\n"+
			"🏷️ ግሩፕ ስም: %s\n"+
			"👥 አባላት: %d\n"+
			"💰 ዋጋ: %s ብር\n"+
			"ለሽያጭ/ግዢ: %s",
		l.GroupName, l.MemberCount, formatPrice(l.Price), l.Kind)
}

func browseMessage(listings []domain.Listing) string {
	var b strings.Builder
	b.WriteString("📢 ንቁ የግሩፕ ማስታወቂያዎች:\n\n")
	for _, l := range listings {
		b.WriteString(fmt.Sprintf(
			"**#%d | %s**\n"+
				"🏷️ ግሩፕ ስም: %s\n"+
				"👥 አባላት: %d\n"+
				"⏳ የተመሠረተበት ቀን: %s\n"+
				"💰 ዋጋ: %s ብር\n"+
				"📞 ለመግዛት/ለመሸጥ: %s\n"+
				"---\n",
			l.ID, l.Kind, l.GroupName, l.MemberCount, l.Established,
			formatPrice(l.Price), l.Contact))
	}
	return b.String()
}

func statsMessage(users, active, sell, buy int64) string {
	return fmt.Sprintf(
		"📊 የማርኬት ሁኔታ:\n"+
			"👤 ተጠቃሚዎች: %d\n"+
			"📢 ንቁ ማስታወቂያዎች: %d\n"+
			"  ለሽያጭ (SELL): %d\n"+
			"  ለግዢ (BUY): %d",
		users, active, sell, buy)
}

func adminMenuMessage() string {
	return "🛠 የአስተዳዳሪ ትእዛዞች:\n" +
		"/del_ad - ማስታወቂያ በመለያ ቁጥር ለመሰረዝ\n" +
		"/broadcast - መልዕክት ለሁሉም ተጠቃሚዎች ለመላክ"
}

func deleteResultMessage(id int64, deleted bool) string {
	if deleted {
		return fmt.Sprintf("✅ ማስታወቂያ #%d ተሰርዟል።", id)
	}
	return fmt.Sprintf("❌ ማስታወቂያ #%d አልተገኘም ወይም አስቀድሞ ተሰርዟል።", id)
}

func broadcastReportMessage(delivered, attempted int) string {
	return fmt.Sprintf("📣 መልዕክቱ ተልኳል: %d ከ %d", delivered, attempted)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
