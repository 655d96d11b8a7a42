package sqlitestore

// schema runs on startup; every statement is idempotent. Nested document
// fields are stored as JSON text to keep parity with the document backends.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    userid TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    role TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    refresh_token TEXT NOT NULL DEFAULT '',
    refresh_expiry INTEGER NOT NULL DEFAULT 0,
    last_login INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
    eventid TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_at INTEGER NOT NULL,
    end_at INTEGER NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    location_type TEXT NOT NULL DEFAULT 'offline',
    category TEXT NOT NULL DEFAULT '',
    capacity INTEGER NOT NULL DEFAULT 0,
    banner_url TEXT NOT NULL DEFAULT '',
    organizerid TEXT NOT NULL,
    organizer_name TEXT NOT NULL DEFAULT '',
    is_registration_open INTEGER NOT NULL DEFAULT 1,
    custom_questions TEXT NOT NULL DEFAULT '',
    collaborator_emails TEXT NOT NULL DEFAULT '',
    participation_mode TEXT NOT NULL DEFAULT '',
    max_team_size INTEGER NOT NULL DEFAULT 0,
    active_count INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS registrations (
    registrationid TEXT PRIMARY KEY,
    eventid TEXT NOT NULL,
    participantid TEXT NOT NULL,
    participant_name TEXT NOT NULL DEFAULT '',
    participant_email TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    attended INTEGER NOT NULL DEFAULT 0,
    attendance_time INTEGER,
    registered_at INTEGER NOT NULL,
    answers TEXT NOT NULL DEFAULT '',
    teamid TEXT NOT NULL DEFAULT '',
    team_name TEXT NOT NULL DEFAULT '',
    is_team_leader INTEGER NOT NULL DEFAULT 0,
    participation_type TEXT NOT NULL DEFAULT 'individual'
);

CREATE TABLE IF NOT EXISTS teams (
    teamid TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    eventid TEXT NOT NULL,
    leaderid TEXT NOT NULL,
    members TEXT NOT NULL DEFAULT '',
    invite_code TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
    notificationid TEXT PRIMARY KEY,
    userid TEXT NOT NULL,
    eventid TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    is_read INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    messageid TEXT PRIMARY KEY,
    eventid TEXT NOT NULL,
    senderid TEXT NOT NULL,
    sender_name TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reviews (
    reviewid TEXT PRIMARY KEY,
    eventid TEXT NOT NULL,
    userid TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    rating INTEGER NOT NULL DEFAULT 0,
    comment TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_registrations_eventid ON registrations(eventid);
CREATE INDEX IF NOT EXISTS idx_registrations_participantid ON registrations(participantid);
CREATE INDEX IF NOT EXISTS idx_teams_eventid ON teams(eventid);
CREATE INDEX IF NOT EXISTS idx_notifications_userid ON notifications(userid);
CREATE INDEX IF NOT EXISTS idx_messages_eventid ON messages(eventid);
CREATE INDEX IF NOT EXISTS idx_reviews_eventid ON reviews(eventid);
`
