package weightdb

// create a table for published weights
const weightTableSchema = `
create table if not exists weight (
	realm blob(32),
	authority blob(20),
	weight blob(8),
	expiry decimal(32,0),
	publishedAt decimal(32,0)
);

CREATE INDEX if not exists realmIndex on weight(realm);
CREATE INDEX if not exists authorityIndex on weight(authority);
CREATE INDEX if not exists expiryIndex on weight(expiry);
CREATE INDEX if not exists publishedAtIndex on weight(publishedAt);
`
