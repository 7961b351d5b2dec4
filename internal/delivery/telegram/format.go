package telegram

import (
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

const (
	msgWelcome = "👋 مرحبًا بك في بوت أسعار الموبايلات!\n\n" +
		"📱 أرسل اسم الجهاز (مثال: Galaxy S25 Ultra)\n" +
		"💰 أو أرسل السعر (مثال: 1300000) للبحث عن أجهزة في هذا النطاق.\n" +
		"⚖️ أو استخدم /compare لمقارنة جهازين."

	msgHelp = "ℹ️ الأوامر المتاحة:\n\n" +
		"/start - بدء الاستخدام\n" +
		"/compare - مقارنة جهازين\n" +
		"/cancel - إلغاء المقارنة\n" +
		"/help - المساعدة\n\n" +
		"📱 أرسل اسم الجهاز لمعرفة السعر، أو أرسل رقمًا للبحث حسب السعر."

	msgNoMatch              = "❌ لم أجد جهازًا مشابهًا. حاول كتابة الاسم بشكل أدق."
	msgNoPriceMatch         = "❌ لا توجد أجهزة في هذا النطاق السعري."
	msgCatalogUnavailable   = "⚠️ قائمة الأسعار غير متاحة حاليًا. حاول لاحقًا."
	msgRateLimited          = "⚠️ طلبات كثيرة جدًا. يرجى الانتظار قليلًا."
	msgBusy                 = "⚠️ البوت مشغول الآن. حاول بعد قليل."
	msgInternalError        = "⚠️ حدث خطأ داخلي. حاول مرة أخرى."
	msgUnknownCommand       = "❓ أمر غير معروف. استخدم /help."
	msgAdminOnly            = "⛔ هذا الأمر للمشرفين فقط."
	msgCompareStart         = "⚖️ أرسل اسم الجهاز الأول للمقارنة."
	msgCompareCancelled     = "❎ تم إلغاء المقارنة."
	msgNoActiveCompare      = "ℹ️ لا توجد مقارنة نشطة."
	msgNotSubscribedYet     = "❌ لم يتم العثور على اشتراكك بعد. تأكد من الاشتراك ثم أعد المحاولة."
	msgSubscriptionVerified = "✅ تم التحقق! يمكنك الآن استخدام البوت."

	btnJoinChannel       = "📢 انضم إلى قناتنا"
	btnFollowInstagram   = "📸 تابعنا على إنستغرام"
	btnCheckSubscription = "🔄 تحقق من الاشتراك"
	btnSpecs             = "🔗 المواصفات"
	btnCancel            = "❎ إلغاء"
)

func subscriptionRequiredText(channel, instagram string) string {
	return "🔒 يرجى الانضمام إلى قناتنا على تليغرام من أجل استخدام البوت 😍✅\n\n" +
		"📢 قناة التليغرام: " + channel + "\n" +
		"📸 أيضًا يجب متابعة حساب الإنستغرام:\n" +
		instagram + "\n\n" +
		"✅ بعد الاشتراك، اضغط على /start للبدء الآن."
}

// formatMatch bitta aniq topilgan qurilma: sarlavha va har bir xotira/narx qatori
func formatMatch(m entity.ResolvedEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📱 %s (تشابه: %d%%)\n", m.Entry.Name, m.Score))
	for _, v := range m.Entry.Variants {
		sb.WriteString(fmt.Sprintf("💾 %s — 💰 %s\n", v.Capacity, v.Price))
	}
	return sb.String()
}

func specsKeyboard(link string) interface{} {
	if !isButtonURL(link) {
		return nil
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(btnSpecs, link)),
	)
}

func formatSuggestions(query string, suggestions []entity.Candidate) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🤔 لم أجد تطابقًا دقيقًا لـ \"%s\". هل تقصد:\n\n", query))
	for _, s := range suggestions {
		sb.WriteString(fmt.Sprintf("• %s (تشابه: %d%%)\n", s.Name, s.Score))
	}
	sb.WriteString("\n✍️ أرسل الاسم الكامل للحصول على السعر.")
	return sb.String()
}

func formatPriceResult(res entity.QueryResult) string {
	if len(res.Prices) == 0 {
		return msgNoPriceMatch
	}
	var sb strings.Builder
	if res.Scan != nil {
		sb.WriteString(fmt.Sprintf("💰 أجهزة بسعر بين %d و %d:\n\n", res.Scan.Low, res.Scan.High))
	}
	for _, p := range res.Prices {
		sb.WriteString(fmt.Sprintf("📱 %s\n💾 %s — 💰 %s\n🔗 %s\n\n", p.Name, p.Variant.Capacity, p.Variant.Price, p.Link))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatDevice(d entity.DeviceReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📱 %s\n", d.Entry.Name))
	for _, v := range d.Entry.Variants {
		sb.WriteString(fmt.Sprintf("💾 %s — 💰 %s\n", v.Capacity, v.Price))
	}
	return sb.String()
}

func formatComparison(p *entity.ComparisonPayload) string {
	return "⚖️ المقارنة:\n\n" + formatDevice(p.First) + "\n🆚\n\n" + formatDevice(p.Second)
}

func comparisonKeyboard(p *entity.ComparisonPayload) interface{} {
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range []entity.DeviceReport{p.First, p.Second} {
		if isButtonURL(d.Link) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonURL("🔗 "+d.Entry.Name, d.Link))
		}
	}
	if len(row) == 0 {
		return nil
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func formatAmbiguous(unresolved []string) string {
	quoted := make([]string, 0, len(unresolved))
	for _, u := range unresolved {
		quoted = append(quoted, "\""+u+"\"")
	}
	return "⚠️ لم أتمكن من تحديد الجهاز بدقة: " + strings.Join(quoted, "، ") +
		"\n✍️ اكتب الاسم الكامل للجهاز ثم أعد /compare."
}

func formatAwaitingSecond(first string) string {
	return fmt.Sprintf("✅ الجهاز الأول: %s\n📱 أرسل اسم الجهاز الثاني.", first)
}

func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(btnCancel, callbackCancelCompare)),
	)
}

func formatStats(sum entity.StatsSummary, catalog *entity.Catalog, activeSessions int) string {
	var sb strings.Builder
	sb.WriteString("📊 الإحصائيات\n")
	sb.WriteString(fmt.Sprintf("👥 المستخدمون: %d\n", sum.Users))
	sb.WriteString(fmt.Sprintf("▶️ مرات البدء: %d\n", sum.Starts))
	sb.WriteString(fmt.Sprintf("⚖️ مقارنات نشطة: %d\n", activeSessions))

	kinds := make([]string, 0, len(sum.Queries))
	for k := range sum.Queries {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	sb.WriteString("🔎 الاستعلامات:\n")
	for _, k := range kinds {
		sb.WriteString(fmt.Sprintf("  %s: %d\n", k, sum.Queries[k]))
	}
	if catalog != nil {
		sb.WriteString(fmt.Sprintf("📦 الكتالوج: %d جهاز، %d خيار (الإصدار %d، %s)",
			catalog.Len(), catalog.VariantCount(), catalog.Version, catalog.LoadedAt.Format("2006-01-02 15:04")))
	}
	return sb.String()
}

func formatReloaded(c *entity.Catalog) string {
	return fmt.Sprintf("✅ تم تحديث الكتالوج: %d جهاز، %d خيار (الإصدار %d)", c.Len(), c.VariantCount(), c.Version)
}

// isButtonURL Telegram URL tugmasi qabul qiladigan manzil
func isButtonURL(link string) bool {
	return strings.HasPrefix(link, "https://") || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "tg://")
}
