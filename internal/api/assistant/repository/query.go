package assistantRepository

const (
	queryCreateBooking = `
		INSERT INTO bookings (
			id, session_id, user_id, account_type, name, email, phone,
			password_hash, service_type, property_type, bedrooms, bathrooms,
			rooms, room_quantities, add_ons, booking_date, booking_time, frequency,
			has_pet, pets, pet_present, special_instructions, payment_method,
			base_price, add_ons_total, discount, tip, total, status, created_at
		) VALUES (
			:id, :session_id, :user_id, :account_type, :name, :email, :phone,
			:password_hash, :service_type, :property_type, :bedrooms, :bathrooms,
			:rooms, :room_quantities, :add_ons, :booking_date, :booking_time, :frequency,
			:has_pet, :pets, :pet_present, :special_instructions, :payment_method,
			:base_price, :add_ons_total, :discount, :tip, :total, :status, :created_at
		)
	`

	bookingColumns = `
			id, session_id, user_id, account_type, name, email, phone,
			password_hash, service_type, property_type, bedrooms, bathrooms,
			rooms, room_quantities, add_ons, booking_date, booking_time, frequency,
			has_pet, pets, pet_present, special_instructions, payment_method,
			base_price, add_ons_total, discount, tip, total, status, created_at
	`

	queryGetBookingByID = `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE id = :id
	`

	queryGetBookingsByUserID = `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = :user_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountBookingsByUserID = `
		SELECT COUNT(*)
		FROM bookings
		WHERE user_id = :user_id
	`

	queryCreateMessage = `
		INSERT INTO chat_messages (
			id, session_id, role, text, quick_replies, attachment, created_at
		) VALUES (
			:id, :session_id, :role, :text, :quick_replies, :attachment, :created_at
		)
	`

	queryGetMessagesBySessionID = `
		SELECT
			id, session_id, role, text, quick_replies, attachment, created_at
		FROM chat_messages
		WHERE session_id = :session_id
		ORDER BY id ASC
	`

	queryCreateSession = `
		INSERT INTO chat_sessions (
			id, user_id, channel, created_at, last_activity
		) VALUES (
			:id, :user_id, :channel, :created_at, :last_activity
		)
	`

	queryGetSessionByID = `
		SELECT
			id, user_id, channel, created_at, last_activity, closed_at
		FROM chat_sessions
		WHERE id = :id
	`

	queryTouchSession = `
		UPDATE chat_sessions
		SET last_activity = :last_activity
		WHERE id = :id
	`

	queryCloseSession = `
		UPDATE chat_sessions
		SET closed_at = :closed_at, last_activity = :closed_at
		WHERE id = :id AND closed_at IS NULL
	`
)
